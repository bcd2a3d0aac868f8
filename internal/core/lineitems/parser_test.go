package lineitems

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsense/internal/entity"
)

func TestParse(t *testing.T) {
	p := NewParser(nil)

	t.Run("simple table", func(t *testing.T) {
		items := p.Parse(`<table>
            <tr><th>Item</th><th>Qty</th><th>Price</th><th>Amount</th></tr>
            <tr><td>Widget A</td><td>5</td><td>$10.00</td><td>$50.00</td></tr>
            <tr><td>Widget B</td><td>3</td><td>$20.00</td><td>$60.00</td></tr>
            </table>`)
		require.Len(t, items, 2)
		assert.Equal(t, entity.LineItem{Description: "Widget A", Quantity: "5", UnitPrice: "$10.00", Amount: "$50.00"}, items[0])
		assert.Equal(t, "Widget B", items[1].Description)
		assert.Equal(t, "3", items[1].Quantity)
	})

	t.Run("thead with sku suffix", func(t *testing.T) {
		items := p.Parse("<table><thead><tr><th>Item</th><th>Quantity</th><th>Rate</th><th>Amount</th></tr></thead>" +
			"<tbody><tr><td>Bush Stackable Bookrack, Pine\nBookcases, Furniture, FUR-BO-3647</td>" +
			"<td>7</td><td>$874.02</td><td>$6,118.14</td></tr></tbody></table>")
		require.Len(t, items, 1)
		assert.Equal(t, entity.LineItem{
			Description: "Bush Stackable Bookrack, Pine",
			Quantity:    "7",
			UnitPrice:   "$874.02",
			Amount:      "$6,118.14",
			Category:    "Bookcases, Furniture, FUR-BO-3647",
		}, items[0])
	})

	t.Run("br separates suffix", func(t *testing.T) {
		items := p.Parse(`<table><tr><th>Item</th><th>Quantity</th><th>Amount</th></tr>
			<tr><td>Product Name<br>Category, SKU-123-456</td><td>2</td><td>$100</td></tr></table>`)
		require.Len(t, items, 1)
		assert.Equal(t, "Product Name", items[0].Description)
		assert.Equal(t, "Category, SKU-123-456", items[0].Category)
		assert.Empty(t, items[0].UnitPrice)
	})

	t.Run("plain continuation lines stay in description", func(t *testing.T) {
		items := p.Parse("<table><tr><th>Description</th><th>Total</th></tr><tr><td>Consulting\nfor march</td><td>$5</td></tr></table>")
		require.Len(t, items, 1)
		assert.Equal(t, "Consulting for march", items[0].Description)
		assert.Empty(t, items[0].Category)
	})

	t.Run("rows without description and summary rows are dropped", func(t *testing.T) {
		items := p.Parse(`<table><tr><th>Item</th><th>Amount</th></tr>
			<tr><td></td><td>$1</td></tr>
			<tr><td>Bolt</td><td>$2</td></tr>
			<tr><td>Subtotal</td><td>$2</td></tr>
			<tr><td>Total:</td><td>$2</td></tr></table>`)
		require.Len(t, items, 1)
		assert.Equal(t, "Bolt", items[0].Description)
	})

	t.Run("th row is the header below a caption row", func(t *testing.T) {
		items := p.Parse("<table><tr><td colspan=2>Order items</td></tr>" +
			"<tr><th>Item</th><th>Qty</th></tr><tr><td>Widget A</td><td>5</td></tr></table>")
		assert.Equal(t, []entity.LineItem{{Description: "Widget A", Quantity: "5"}}, items)
	})

	t.Run("unlabelled first column is the description", func(t *testing.T) {
		items := p.Parse("<table><tr><td>#</td><td>Qty</td></tr><tr><td>Nut</td><td>4</td></tr></table>")
		require.Len(t, items, 1)
		assert.Equal(t, "Nut", items[0].Description)
		assert.Equal(t, "4", items[0].Quantity)
	})
}

func TestParseEmpty(t *testing.T) {
	p := NewParser(nil)

	for name, frag := range map[string]string{
		"header only":   "<table><tr><th>Item</th></tr></table>",
		"no table":      "just text",
		"empty":         "",
		"headerless":    "<table><tr><td>a</td><td>b</td></tr><tr><td>c</td><td>d</td></tr></table>",
		"no rows":       "<table></table>",
		"broken markup": "<table><tr><td>Item</td><tr><td",
	} {
		t.Run(name, func(t *testing.T) {
			items := p.Parse(frag)
			assert.NotNil(t, items)
			assert.Empty(t, items)
		})
	}
}

func TestParseAll(t *testing.T) {
	p := NewParser(nil)
	items := p.ParseAll([]string{
		"<table><tr><th>Item</th></tr><tr><td>A</td></tr></table>",
		"<table><tr><th>Item</th></tr></table>",
		"<table><tr><th>Item</th></tr><tr><td>B</td></tr></table>",
	})
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0].Description)
	assert.Equal(t, "B", items[1].Description)

	assert.Equal(t, []entity.LineItem{}, p.ParseAll(nil))
}
