package markup

// Checkbox is one ballot-box glyph found in the text with the label that follows it.
type Checkbox struct {
	Label   string `json:"label"`
	Checked bool   `json:"checked"`
}

// ParsedPage holds everything recognised on one page, in document order.
type ParsedPage struct {
	Number      int        `json:"page_number"`
	Text        string     `json:"text"`
	TablesHTML  []string   `json:"tables_html"`
	TablesCSV   []string   `json:"tables_csv"`
	Equations   []string   `json:"latex_equations"`
	Images      []string   `json:"images"`
	Watermarks  []string   `json:"watermarks"`
	PageNumbers []string   `json:"page_numbers"`
	Checkboxes  []Checkbox `json:"checkboxes"`
}

// ParseResult is the ordered page sequence. Empty input yields no pages.
type ParseResult struct {
	Pages []ParsedPage `json:"pages"`
}
