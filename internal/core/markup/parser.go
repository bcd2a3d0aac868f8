package markup

import (
	"bytes"
	"encoding/csv"
	"html"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
)

// markupPatterns holds every tag matcher. Built once at package init and only read
// afterwards, so a Parser is safe for concurrent use.
var markupPatterns = struct {
	page      *regexp.Regexp
	table     *regexp.Regexp
	row       *regexp.Regexp
	cell      *regexp.Regexp
	tag       *regexp.Regexp
	equation  *regexp.Regexp
	image     *regexp.Regexp
	watermark *regexp.Regexp
	pageNum   *regexp.Regexp
	checkbox  *regexp.Regexp
}{
	page:  regexp.MustCompile(`(?im)^[ \t]*-{3,}[ \t]*page[ \t]+(\d+)[ \t]*-{3,}[ \t]*$`),
	table: regexp.MustCompile(`(?is)<table\b[^>]*>.*?</table\s*>`),
	row:   regexp.MustCompile(`(?is)<tr\b[^>]*>(.*?)</tr\s*>`),
	cell:  regexp.MustCompile(`(?is)<t[dh]\b[^>]*>(.*?)</t[dh]\s*>`),
	tag:   regexp.MustCompile(`<[^>]*>`),
	// Display equations come first in the alternation so "$$x$$" is never read as
	// two inline spans. Inline bodies may not start or end with whitespace, which
	// keeps "$100 and $200" from being taken for an equation.
	equation:  regexp.MustCompile(`(?s)\$\$(.+?)\$\$|\$([^$\s](?:[^$\n]*[^$\s])?)\$`),
	image:     regexp.MustCompile(`(?is)<img\b[^>]*>(.*?)</img\s*>`),
	watermark: regexp.MustCompile(`(?is)<watermark\b[^>]*>(.*?)</watermark\s*>`),
	pageNum:   regexp.MustCompile(`(?is)<page_number\b[^>]*>(.*?)</page_number\s*>`),
	checkbox:  regexp.MustCompile(`(☑|☒|✅|☐|\[[xX ]\])[ \t]*([^\n]*)`),
}

// Parser turns tag-annotated VLM output into pages and typed blocks.
type Parser struct {
	logger *slog.Logger
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// Parse splits text on "--- Page N ---" markers and extracts every block category
// per page. Text without markers is a single page numbered 1; text before the first
// marker is folded into the first page.
func (p *Parser) Parse(text string) ParseResult {
	res := ParseResult{Pages: []ParsedPage{}}
	if strings.TrimSpace(text) == "" {
		return res
	}
	text = Normalize(text)

	for _, seg := range splitPages(text) {
		res.Pages = append(res.Pages, p.parsePage(seg.number, seg.body))
	}

	p.logger.Debug("markup.parse.ok", "pages", len(res.Pages), "bytes", len(text))
	return res
}

type pageSegment struct {
	number int
	body   string
}

func splitPages(text string) []pageSegment {
	locs := markupPatterns.page.FindAllStringSubmatchIndex(text, -1)
	if len(locs) == 0 {
		return []pageSegment{{number: 1, body: text}}
	}

	preamble := text[:locs[0][0]]
	segs := make([]pageSegment, 0, len(locs))
	for i, loc := range locs {
		n, err := strconv.Atoi(text[loc[2]:loc[3]])
		if err != nil {
			n = i + 1
		}
		end := len(text)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		body := text[loc[1]:end]
		if i == 0 && strings.TrimSpace(preamble) != "" {
			body = preamble + "\n" + body
		}
		segs = append(segs, pageSegment{number: n, body: body})
	}
	return segs
}

func (p *Parser) parsePage(number int, body string) ParsedPage {
	htmlTables, csvTables := p.ExtractTables(body)
	return ParsedPage{
		Number:      number,
		Text:        strings.TrimSpace(body),
		TablesHTML:  htmlTables,
		TablesCSV:   csvTables,
		Equations:   p.ExtractEquations(body),
		Images:      p.ExtractImages(body),
		Watermarks:  p.ExtractWatermarks(body),
		PageNumbers: p.ExtractPageNumbers(body),
		Checkboxes:  p.ExtractCheckboxes(body),
	}
}

// ExtractTables returns every <table>…</table> region in document order together
// with a CSV rendering of its rows. No tables yields two empty slices.
func (p *Parser) ExtractTables(text string) ([]string, []string) {
	htmlTables := []string{}
	csvTables := []string{}
	for _, t := range markupPatterns.table.FindAllString(text, -1) {
		htmlTables = append(htmlTables, t)
		csvTables = append(csvTables, TableToCSV(t))
	}
	return htmlTables, csvTables
}

// TableToCSV flattens one table fragment: rows split on <tr>, cells on <td>/<th>,
// residual tags stripped and entities decoded. Rows without cells are skipped.
func TableToCSV(table string) string {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, row := range TableRows(table) {
		_ = w.Write(row)
	}
	w.Flush()
	return strings.TrimRight(buf.String(), "\n")
}

// TableRows returns the cell text of every row of a table fragment.
func TableRows(table string) [][]string {
	var rows [][]string
	for _, rm := range markupPatterns.row.FindAllStringSubmatch(table, -1) {
		var cells []string
		for _, cm := range markupPatterns.cell.FindAllStringSubmatch(rm[1], -1) {
			cells = append(cells, cellText(cm[1]))
		}
		if len(cells) > 0 {
			rows = append(rows, cells)
		}
	}
	return rows
}

func cellText(s string) string {
	s = markupPatterns.tag.ReplaceAllString(s, " ")
	s = html.UnescapeString(s)
	return strings.Join(strings.Fields(s), " ")
}

// ExtractEquations returns display ($$…$$) and inline ($…$) equations in source order.
func (p *Parser) ExtractEquations(text string) []string {
	out := []string{}
	for _, m := range markupPatterns.equation.FindAllStringSubmatch(text, -1) {
		eq := m[1]
		if eq == "" {
			eq = m[2]
		}
		if eq = strings.TrimSpace(eq); eq != "" {
			out = append(out, eq)
		}
	}
	return out
}

// ExtractImages returns the trimmed captions of <img>…</img> blocks.
func (p *Parser) ExtractImages(text string) []string {
	return innerTexts(markupPatterns.image, text)
}

// ExtractWatermarks returns the trimmed contents of <watermark>…</watermark> blocks.
func (p *Parser) ExtractWatermarks(text string) []string {
	return innerTexts(markupPatterns.watermark, text)
}

// ExtractPageNumbers returns the trimmed contents of <page_number>…</page_number> blocks.
func (p *Parser) ExtractPageNumbers(text string) []string {
	return innerTexts(markupPatterns.pageNum, text)
}

func innerTexts(re *regexp.Regexp, text string) []string {
	out := []string{}
	for _, m := range re.FindAllStringSubmatch(text, -1) {
		out = append(out, strings.TrimSpace(m[1]))
	}
	return out
}

// ExtractCheckboxes maps ☑, ☒, ✅ and [x] to checked and ☐, [ ] to unchecked. The
// label is the rest of the line.
func (p *Parser) ExtractCheckboxes(text string) []Checkbox {
	out := []Checkbox{}
	for _, m := range markupPatterns.checkbox.FindAllStringSubmatch(text, -1) {
		out = append(out, Checkbox{
			Label:   strings.TrimSpace(m[2]),
			Checked: isChecked(m[1]),
		})
	}
	return out
}

func isChecked(glyph string) bool {
	switch glyph {
	case "☑", "☒", "✅", "[x]", "[X]":
		return true
	}
	return false
}

// ToDict flattens a ParseResult into plain maps and slices for external formatters.
func ToDict(res ParseResult) map[string]any {
	pages := make([]any, 0, len(res.Pages))
	for _, pg := range res.Pages {
		boxes := make([]any, 0, len(pg.Checkboxes))
		for _, cb := range pg.Checkboxes {
			boxes = append(boxes, map[string]any{"label": cb.Label, "checked": cb.Checked})
		}
		pages = append(pages, map[string]any{
			"page_number":     pg.Number,
			"text":            pg.Text,
			"tables_html":     stringsOrEmpty(pg.TablesHTML),
			"tables_csv":      stringsOrEmpty(pg.TablesCSV),
			"latex_equations": stringsOrEmpty(pg.Equations),
			"images":          stringsOrEmpty(pg.Images),
			"watermarks":      stringsOrEmpty(pg.Watermarks),
			"page_numbers":    stringsOrEmpty(pg.PageNumbers),
			"checkboxes":      boxes,
		})
	}
	return map[string]any{
		"total_pages": len(res.Pages),
		"pages":       pages,
	}
}

func stringsOrEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
