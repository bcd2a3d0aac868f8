package lineitems

import (
	"log/slog"
	"regexp"
	"strings"

	"golang.org/x/net/html"

	"github.com/joseph-ayodele/docsense/internal/entity"
)

type column int

const (
	colNone column = iota
	colDescription
	colQuantity
	colUnitPrice
	colAmount
)

// headerKeywords is checked top to bottom for each header cell; the first column
// kind whose keyword occurs in the lower-cased header wins.
var headerKeywords = []struct {
	col      column
	keywords []string
}{
	{colQuantity, []string{"qty", "quantity", "hours", "hrs"}},
	{colAmount, []string{"amount", "total"}},
	{colUnitPrice, []string{"price", "rate", "cost"}},
	{colDescription, []string{"description", "item", "product", "service", "desc", "details", "particulars"}},
}

var (
	// A trailing line is a category/SKU suffix when it carries an upper-case code
	// like FUR-BO-3647 or SKU-123, or a standalone all-caps word.
	reSKU = regexp.MustCompile(`\b[A-Z0-9]{2,}(?:-[A-Z0-9]+)+\b|\b[A-Z]{2,}\b`)

	summaryLabels = []string{"subtotal", "sub total", "total", "tax", "vat", "shipping", "discount", "balance due", "amount due"}
)

// Parser turns HTML table fragments into line items.
type Parser struct {
	logger *slog.Logger
}

func NewParser(logger *slog.Logger) *Parser {
	if logger == nil {
		logger = slog.Default()
	}
	return &Parser{logger: logger}
}

// ParseAll parses each fragment in order and concatenates the items.
func (p *Parser) ParseAll(tables []string) []entity.LineItem {
	items := []entity.LineItem{}
	for _, t := range tables {
		items = append(items, p.Parse(t)...)
	}
	return items
}

// Parse reads one table fragment. The header is the first <thead> row, else the
// first row holding a <th> cell, else the first row. A table whose header names
// none of the known columns, or that has no body rows, yields no items.
func (p *Parser) Parse(fragment string) []entity.LineItem {
	items := []entity.LineItem{}

	doc, err := html.Parse(strings.NewReader(fragment))
	if err != nil {
		p.logger.Debug("lineitems.parse.html_error", "error", err)
		return items
	}
	table := findElement(doc, "table")
	if table == nil {
		return items
	}

	header, body := splitRows(collectRows(table))
	if header == nil || len(body) == 0 {
		return items
	}

	cols := mapColumns(header)
	if !cols.any() {
		p.logger.Debug("lineitems.parse.headerless", "columns", len(header.cells))
		return items
	}

	for _, r := range body {
		item, ok := cols.item(r.cells)
		if !ok {
			continue
		}
		items = append(items, item)
	}
	p.logger.Debug("lineitems.parse.ok", "rows", len(body), "items", len(items))
	return items
}

type tableRow struct {
	cells  []string
	inHead bool
	hasTH  bool
}

// collectRows walks the table's own rows in order, skipping nested tables.
func collectRows(table *html.Node) []tableRow {
	var rows []tableRow
	var walk func(n *html.Node, inHead bool)
	walk = func(n *html.Node, inHead bool) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if c.Type != html.ElementNode {
				continue
			}
			switch c.Data {
			case "thead":
				walk(c, true)
			case "tbody", "tfoot":
				walk(c, inHead)
			case "tr":
				if r := parseRow(c, inHead); len(r.cells) > 0 {
					rows = append(rows, r)
				}
			}
		}
	}
	walk(table, false)
	return rows
}

func parseRow(tr *html.Node, inHead bool) tableRow {
	r := tableRow{inHead: inHead}
	for c := tr.FirstChild; c != nil; c = c.NextSibling {
		if c.Type != html.ElementNode || (c.Data != "td" && c.Data != "th") {
			continue
		}
		if c.Data == "th" {
			r.hasTH = true
		}
		r.cells = append(r.cells, cellText(c))
	}
	return r
}

func splitRows(rows []tableRow) (*tableRow, []tableRow) {
	if len(rows) == 0 {
		return nil, nil
	}
	for i := range rows {
		if rows[i].inHead {
			var body []tableRow
			for _, r := range rows {
				if !r.inHead {
					body = append(body, r)
				}
			}
			return &rows[i], body
		}
	}
	// Rows above a <th> header are captions and never become items.
	for i := range rows {
		if rows[i].hasTH {
			return &rows[i], rows[i+1:]
		}
	}
	return &rows[0], rows[1:]
}

type columnMap struct {
	description, quantity, unitPrice, amount int
}

func mapColumns(header *tableRow) columnMap {
	cm := columnMap{description: -1, quantity: -1, unitPrice: -1, amount: -1}
	for i, h := range header.cells {
		switch classifyHeader(h) {
		case colDescription:
			if cm.description < 0 {
				cm.description = i
			}
		case colQuantity:
			if cm.quantity < 0 {
				cm.quantity = i
			}
		case colUnitPrice:
			if cm.unitPrice < 0 {
				cm.unitPrice = i
			}
		case colAmount:
			if cm.amount < 0 {
				cm.amount = i
			}
		}
	}
	// Without a labelled description column, an unlabelled first column is used.
	if cm.any() && cm.description < 0 && classifyHeader(header.cells[0]) == colNone {
		cm.description = 0
	}
	return cm
}

func classifyHeader(h string) column {
	h = strings.ToLower(h)
	for _, hk := range headerKeywords {
		for _, kw := range hk.keywords {
			if strings.Contains(h, kw) {
				return hk.col
			}
		}
	}
	return colNone
}

func (cm columnMap) any() bool {
	return cm.description >= 0 || cm.quantity >= 0 || cm.unitPrice >= 0 || cm.amount >= 0
}

// item builds a LineItem from one body row. Rows without a description and
// summary rows such as "Subtotal" are rejected.
func (cm columnMap) item(cells []string) (entity.LineItem, bool) {
	desc, category := splitDescription(cellAt(cells, cm.description))
	if desc == "" || isSummaryLabel(desc) {
		return entity.LineItem{}, false
	}
	return entity.LineItem{
		Description: desc,
		Quantity:    singleLine(cellAt(cells, cm.quantity)),
		UnitPrice:   singleLine(cellAt(cells, cm.unitPrice)),
		Amount:      singleLine(cellAt(cells, cm.amount)),
		Category:    category,
	}, true
}

func cellAt(cells []string, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return cells[i]
}

// splitDescription separates a product name from a trailing category/SKU line.
// When the later lines do not look like a code they stay part of the description.
func splitDescription(cell string) (string, string) {
	var lines []string
	for _, l := range strings.Split(cell, "\n") {
		if l = singleLine(l); l != "" {
			lines = append(lines, l)
		}
	}
	switch {
	case len(lines) == 0:
		return "", ""
	case len(lines) == 1:
		return lines[0], ""
	}

	rest := strings.Join(lines[1:], " ")
	if reSKU.MatchString(rest) {
		return lines[0], rest
	}
	return strings.Join(lines, " "), ""
}

func isSummaryLabel(desc string) bool {
	d := strings.TrimRight(strings.ToLower(desc), ": ")
	for _, s := range summaryLabels {
		if d == s {
			return true
		}
	}
	return false
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// cellText returns the text of a cell with line structure kept: literal newlines
// and <br> both end a line.
func cellText(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch {
		case n.Type == html.TextNode:
			b.WriteString(n.Data)
		case n.Type == html.ElementNode && n.Data == "br":
			b.WriteString("\n")
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && (n.Data == "p" || n.Data == "div") {
			b.WriteString("\n")
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func findElement(n *html.Node, tag string) *html.Node {
	if n.Type == html.ElementNode && n.Data == tag {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, tag); found != nil {
			return found
		}
	}
	return nil
}
