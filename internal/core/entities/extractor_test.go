package entities

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsense/internal/entity"
)

func TestExtract(t *testing.T) {
	x := NewExtractor(nil)

	text := "Invoice for John Smith\nEmail: john@example.com\nPhone: (555) 123-4567\nAmount: $1,500.00\nDate: January 15, 2024"
	got := x.Extract(text)

	require.Len(t, got, 4)
	assert.Equal(t, []string{TypeEmail, TypePhone, TypeMoney, TypeDate}, types(got))
	assert.Equal(t, "john@example.com", got[0].Value)
	assert.Equal(t, "(555) 123-4567", got[1].Value)
	assert.Equal(t, "$1,500.00", got[2].Value)
	assert.Equal(t, "January 15, 2024", got[3].Value)

	for _, e := range got {
		assert.Equal(t, e.Value, text[e.Offset:e.Offset+len(e.Value)])
	}
}

func TestExtractTypes(t *testing.T) {
	x := NewExtractor(nil)

	tests := []struct {
		name string
		text string
		want []entity.Entity
	}{
		{
			name: "iso date and percentage",
			text: "Due 2024-01-15 with 5% discount",
			want: []entity.Entity{
				{Type: TypeDate, Value: "2024-01-15", Offset: 4},
				{Type: TypePercentage, Value: "5%", Offset: 20},
			},
		},
		{
			name: "url trailing punctuation",
			text: "See https://example.com/pay.",
			want: []entity.Entity{{Type: TypeURL, Value: "https://example.com/pay", Offset: 4}},
		},
		{
			name: "currency code",
			text: "Total 250.00 EUR",
			want: []entity.Entity{{Type: TypeMoney, Value: "250.00 EUR", Offset: 6}},
		},
		{
			name: "international phone",
			text: "Tel +1 (555) 123-4567",
			want: []entity.Entity{{Type: TypePhone, Value: "+1 (555) 123-4567", Offset: 4}},
		},
		{
			name: "numeric and abbreviated dates",
			text: "01/15/2024 and 15-Jan-2024 and Dec 08 2012",
			want: []entity.Entity{
				{Type: TypeDate, Value: "01/15/2024", Offset: 0},
				{Type: TypeDate, Value: "15-Jan-2024", Offset: 15},
				{Type: TypeDate, Value: "Dec 08 2012", Offset: 31},
			},
		},
		{
			name: "email inside url is not repeated",
			text: "https://mail.example.com/u/a@b.co",
			want: []entity.Entity{{Type: TypeURL, Value: "https://mail.example.com/u/a@b.co", Offset: 0}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, x.Extract(tt.text))
		})
	}
}

func TestExtractEmpty(t *testing.T) {
	x := NewExtractor(nil)

	assert.Equal(t, []entity.Entity{}, x.Extract(""))
	assert.Equal(t, []entity.Entity{}, x.Extract("no values here"))
	assert.NotPanics(t, func() { x.Extract(strings.Repeat("$1,0 @ 2024-", 5000)) })
}

func types(es []entity.Entity) []string {
	out := make([]string, len(es))
	for i, e := range es {
		out[i] = e.Type
	}
	return out
}
