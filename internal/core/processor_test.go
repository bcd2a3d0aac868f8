package core

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsense/constants"
	"github.com/joseph-ayodele/docsense/internal/entity"
)

const invoiceText = `INVOICE # 12345
Invoice Date: 2024-01-15
Bill To:
    **Adam Hart**
Due Date: 2024-02-15
Total: $1,234.56
Contact: billing@acme.com
<table><thead><tr><th>Description</th><th>Qty</th><th>Price</th><th>Amount</th></tr></thead>
<tbody><tr><td>Widget A</td><td>5</td><td>$10.00</td><td>$50.00</td></tr></tbody></table>`

func TestProcessInvoice(t *testing.T) {
	p := NewProcessor(nil)
	res := p.Process(invoiceText, nil)

	assert.Equal(t, constants.Invoice, res.DocumentType)
	assert.InDelta(t, 0.72, res.Confidence, 1e-9)
	assert.Equal(t, "invoice", res.Schema)

	fields := res.ExtractedFields
	assert.Equal(t, "12345", fields["invoice_number"])
	assert.Equal(t, "2024-01-15", fields["date"])
	assert.Equal(t, "2024-02-15", fields["due_date"])
	assert.Equal(t, "1234.56", fields["total"])
	assert.Equal(t, "billing@acme.com", fields["email"])
	assert.Equal(t, map[string]any{"name": "Adam Hart"}, fields["bill_to"])

	require.Len(t, res.LineItems, 1)
	assert.Equal(t, "Widget A", res.LineItems[0].Description)
	assert.Equal(t, "5", res.LineItems[0].Quantity)

	assert.Contains(t, res.Entities, entity.Entity{Type: "email", Value: "billing@acme.com", Offset: 115})
	for i := 1; i < len(res.Entities); i++ {
		assert.Less(t, res.Entities[i-1].Offset, res.Entities[i].Offset)
	}

	assert.Equal(t, invoiceText, res.Raw.Text)
}

func TestProcessReceipt(t *testing.T) {
	text := "RECEIPT\nStore: SuperMart\nTransaction # 98765\nSubtotal: $50.00\nTax: $4.00\nTotal: $54.00\nPaid by: Credit Card\nCashier: Jane"
	res := NewProcessor(nil).Process(text, nil)

	assert.Equal(t, constants.Receipt, res.DocumentType)
	assert.Equal(t, "receipt", res.Schema)
	assert.Equal(t, "54.00", res.ExtractedFields["total"])
	assert.Equal(t, "SuperMart", res.ExtractedFields["store_name"])
	assert.Equal(t, []entity.LineItem{}, res.LineItems)
}

func TestProcessBlank(t *testing.T) {
	p := NewProcessor(nil)

	for _, text := range []string{"", "   ", "\n\t\n"} {
		res := p.Process(text, nil)
		assert.Equal(t, constants.UnknownType, res.DocumentType)
		assert.Equal(t, constants.UnknownLanguage, res.Language)
		assert.Zero(t, res.Confidence)
		assert.Equal(t, map[string]any{}, res.ExtractedFields)
		assert.Equal(t, []entity.LineItem{}, res.LineItems)
		assert.Equal(t, []entity.Entity{}, res.Entities)
		assert.Equal(t, text, res.Raw.Text)
	}
}

func TestProcessLanguage(t *testing.T) {
	p := NewProcessor(nil)

	res := p.Process("The quick brown fox jumps over the lazy dog.", nil)
	assert.Equal(t, constants.English, res.Language)
	assert.Greater(t, res.LanguageConfidence, 0.0)
	assert.Equal(t, constants.GeneralSchema, res.Schema)

	res = p.Process("¿Dónde está la factura del señor García? El pago de la cuenta se realizó en efectivo y los documentos están listos.", nil)
	assert.Equal(t, constants.Spanish, res.Language)
}

func TestProcessTableFragments(t *testing.T) {
	p := NewProcessor(nil)
	fragment := "<table><tr><th>Item</th><th>Quantity</th><th>Amount</th></tr>" +
		"<tr><td>Consulting</td><td>2</td><td>$300.00</td></tr></table>"

	res := p.Process("Invoice Number: INV-9\nTotal Due: $600.00", []string{fragment})
	require.Len(t, res.LineItems, 1)
	assert.Equal(t, entity.LineItem{Description: "Consulting", Quantity: "2", Amount: "$300.00"}, res.LineItems[0])

	// Supplied fragments take precedence over tables embedded in the text.
	res = p.Process(invoiceText, []string{fragment})
	require.Len(t, res.LineItems, 1)
	assert.Equal(t, "Consulting", res.LineItems[0].Description)

	res = p.Process("Invoice Number: INV-9", []string{"<table></table>"})
	assert.Equal(t, []entity.LineItem{}, res.LineItems)
}

func TestProcessorOptions(t *testing.T) {
	t.Run("schema override", func(t *testing.T) {
		res := NewProcessor(nil, WithSchema("receipt")).Process(invoiceText, nil)
		assert.Equal(t, constants.Invoice, res.DocumentType)
		assert.Equal(t, "receipt", res.Schema)
		assert.Equal(t, "1234.56", res.ExtractedFields["total"])
		assert.NotContains(t, res.ExtractedFields, "invoice_number")
	})

	t.Run("unknown override falls back to general", func(t *testing.T) {
		res := NewProcessor(nil, WithSchema("no_such_schema")).Process(invoiceText, nil)
		assert.Equal(t, constants.GeneralSchema, res.Schema)
	})

	t.Run("document type names route to their schema", func(t *testing.T) {
		for override, want := range map[string]string{
			"Bill":           "invoice",
			"bank statement": "bank_statement",
			"Receipt":        "receipt",
			"form":           constants.GeneralSchema,
		} {
			res := NewProcessor(nil, WithSchema(override)).Process(invoiceText, nil)
			assert.Equal(t, want, res.Schema, override)
		}
	})

	t.Run("min confidence", func(t *testing.T) {
		res := NewProcessor(nil, WithMinConfidence(0.9)).Process(invoiceText, nil)
		assert.Equal(t, "12345", res.ExtractedFields["invoice_number"])
		assert.NotContains(t, res.ExtractedFields, "total")
	})

	t.Run("out of range confidence is ignored", func(t *testing.T) {
		res := NewProcessor(nil, WithMinConfidence(2)).Process(invoiceText, nil)
		assert.Contains(t, res.ExtractedFields, "total")
	})
}

func TestProcessIsIdempotent(t *testing.T) {
	p := NewProcessor(nil)
	assert.Equal(t, p.Process(invoiceText, nil), p.Process(invoiceText, nil))
}

func TestDefaultProcessor(t *testing.T) {
	assert.Same(t, Default(), Default())

	res := ProcessToStructured(invoiceText)
	assert.Equal(t, constants.Invoice, res.DocumentType)
	assert.Equal(t, "12345", res.ExtractedFields["invoice_number"])

	var wg sync.WaitGroup
	results := make([]entity.StructuredResult, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = ProcessToStructured(invoiceText)
		}(i)
	}
	wg.Wait()
	for _, r := range results {
		assert.Equal(t, res, r)
	}
}

func TestParsePages(t *testing.T) {
	pr := NewProcessor(nil).Parse("--- Page 1 ---\nfirst\n--- Page 2 ---\nsecond")
	require.Len(t, pr.Pages, 2)
	assert.Equal(t, 2, pr.Pages[1].Number)
}
