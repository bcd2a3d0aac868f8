package language

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/docsense/constants"
)

func TestFieldLabel(t *testing.T) {
	l := NewLocalizer(nil, nil)

	label, ok := l.FieldLabel("invoice_number", constants.Spanish)
	assert.True(t, ok)
	assert.Equal(t, "número de factura", label)

	label, ok = l.FieldLabel("tax", constants.German)
	assert.True(t, ok)
	assert.Equal(t, "steuer", label)

	_, ok = l.FieldLabel("invoice_number", constants.Russian)
	assert.False(t, ok)

	_, ok = l.FieldLabel("vendor", constants.English)
	assert.False(t, ok)
}

func TestExtractLocalized(t *testing.T) {
	l := NewLocalizer(nil, nil)

	t.Run("spanish labels", func(t *testing.T) {
		text := "¿Factura de la empresa? Número de factura: F-2024-17\nFecha: 12/03/2024\nImpuesto: 21%\nTotal: 1.210,00 €\nLos pagos se realizan en efectivo y del banco."
		res := l.ExtractLocalized(text, []string{"invoice_number", "date", "tax", "total", "vendor"})

		assert.Equal(t, constants.Spanish, res.Language)
		assert.Equal(t, "F-2024-17", res.Fields["invoice_number"])
		assert.Equal(t, "12/03/2024", res.Fields["date"])
		assert.Equal(t, "21%", res.Fields["tax"])
		assert.Equal(t, "1.210,00 €", res.Fields["total"])
		assert.NotContains(t, res.Fields, "vendor")
	})

	t.Run("english labels", func(t *testing.T) {
		text := "This is the invoice for the order.\nInvoice Number: INV-9\nTotal: $40.00"
		res := l.ExtractLocalized(text, []string{"invoice_number", "total"})

		assert.Equal(t, constants.English, res.Language)
		assert.Equal(t, "INV-9", res.Fields["invoice_number"])
		assert.Equal(t, "$40.00", res.Fields["total"])
	})

	t.Run("unknown language yields no fields", func(t *testing.T) {
		res := l.ExtractLocalized("", []string{"total"})
		assert.Equal(t, constants.UnknownLanguage, res.Language)
		assert.Empty(t, res.Fields)
	})
}

func TestExtractLocalizedAs(t *testing.T) {
	l := NewLocalizer(nil, nil)
	text := "Rechnungsnummer: R-77\nGesamt: 99,00 €"

	res := l.ExtractLocalizedAs(text, LocalizedFieldNames(), constants.German)
	assert.Equal(t, constants.German, res.Language)
	assert.Equal(t, 1.0, res.Confidence)
	assert.Equal(t, map[string]string{"invoice_number": "R-77", "total": "99,00 €"}, res.Fields)

	res = l.ExtractLocalizedAs(text, LocalizedFieldNames(), constants.Russian)
	assert.Empty(t, res.Fields)
}
