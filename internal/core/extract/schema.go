package extract

import (
	"sort"
	"strings"
)

// Field value types understood by the schema extractor.
const (
	TypeString   = "string"
	TypeNumber   = "number"
	TypeCurrency = "currency"
	TypeDate     = "date"
	TypeEmail    = "email"
	TypePhone    = "phone"
	TypeAddress  = "address"
)

var fieldTypes = []string{TypeString, TypeNumber, TypeCurrency, TypeDate, TypeEmail, TypePhone, TypeAddress}

// FieldSpec describes one schema field. Pattern is matched case-insensitively;
// with a capture group the first group is the value, otherwise the whole match.
// A field without a pattern is found by its Label ("Label: value").
type FieldSpec struct {
	Type    string `json:"type" yaml:"type"`
	Pattern string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Label   string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Schema maps a field key to its spec. A dotted key such as "bill_to.name" nests
// the value under "bill_to" in the output.
type Schema map[string]FieldSpec

// Keys returns the schema's field keys sorted, which is the extraction order.
func (s Schema) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// label is the text searched for when a field has no pattern.
func (f FieldSpec) label(key string) string {
	if f.Label != "" {
		return f.Label
	}
	if i := strings.LastIndex(key, "."); i >= 0 {
		key = key[i+1:]
	}
	return strings.ReplaceAll(key, "_", " ")
}

// Shared patterns. Values run to the end of the line unless stated otherwise.
const (
	patDate       = `(?m)^[ \t]*(?:invoice[ \t]+|issue[ \t]+)?date[ \t]*:[ \t]*([^\n]+)`
	patDueDate    = `\b(?:due[ \t]+date|payment[ \t]+due)[ \t]*:?[ \t]*([^\n]+)`
	patSubtotal   = `(?m)^[ \t]*sub[ \t\-]*total[ \t]*:?[ \t]*([^\n]+)`
	patTax        = `(?m)^[ \t]*(?:sales[ \t]+)?(?:tax|vat|gst)(?:[ \t]+amount)?[ \t]*(?:\([^)\n]*\))?[ \t]*:[ \t]*([^\n]+)`
	patTotal      = `(?m)^[ \t]*(?:grand[ \t]+)?total[ \t]*:[ \t]*([^\n]+)`
	patShipping   = `(?m)^[ \t]*shipping(?:[ \t]+(?:fee|cost|charge)s?)?[ \t]*:[ \t]*([^\n]+)`
	patEmail      = `[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}`
	patPhone      = `\b(?:phone|tel(?:ephone)?|mobile|fax)\b[ \t]*[.:]?[ \t]*([+(]?\d[\d \t().\-]{5,}\d)`
	patBillToName = `\bbill(?:ed)?[ \t]+to[ \t]*:?\s*\**[ \t]*([^\n*]+)`
	patShipToAddr = `\bship[ \t]+to[ \t]*:?\s*\**[ \t]*([^\n*]+)`
)

// builtinOrder is the order AvailableSchemas reports builtin schemas in.
var builtinOrder = []string{"invoice", "receipt", "contract", "bank_statement", "tax_document", "medical", "general"}

func builtinSchemas() map[string]Schema {
	return map[string]Schema{
		"invoice": {
			"invoice_number":  {Type: TypeString, Pattern: `\binvoice\s*(?:number|no\.?|num\.?|#)\s*[:#]?\s*([a-z0-9][a-z0-9\-/]*)`},
			"date":            {Type: TypeDate, Pattern: patDate},
			"due_date":        {Type: TypeDate, Pattern: patDueDate},
			"po_number":       {Type: TypeString, Pattern: `\b(?:p\.?o\.?|purchase[ \t]+order)[ \t]*(?:number|no\.?|#)?[ \t]*[:#][ \t]*([a-z0-9][a-z0-9\-/]*)`},
			"order_id":        {Type: TypeString, Pattern: `\border[ \t]+(?:id|number|no\.?)[ \t]*[:#]?[ \t]*([a-z0-9][a-z0-9\-/]*)`},
			"vendor":          {Type: TypeString, Pattern: `(?m)^[ \t]*(?:vendor|seller|supplier|from|company(?:[ \t]+name)?)[ \t]*:[ \t]*([^\n]+)`},
			"bill_to.name":    {Type: TypeString, Pattern: patBillToName},
			"ship_to.address": {Type: TypeAddress, Pattern: patShipToAddr},
			"subtotal":        {Type: TypeCurrency, Pattern: patSubtotal},
			"tax_amount":      {Type: TypeCurrency, Pattern: patTax},
			"shipping":        {Type: TypeCurrency, Pattern: patShipping},
			"total":           {Type: TypeCurrency, Pattern: patTotal},
			"total_amount":    {Type: TypeCurrency, Pattern: `\b(?:total[ \t]+amount|amount[ \t]+due|total[ \t]+due|balance[ \t]+due)[ \t]*:?[ \t]*([^\n]+)`},
			"payment_terms":   {Type: TypeString, Pattern: `\b(?:payment[ \t]+)?terms[ \t]*:[ \t]*([^\n]+)`},
			"email":           {Type: TypeEmail, Pattern: patEmail},
			"phone":           {Type: TypePhone, Pattern: patPhone},
		},
		"receipt": {
			"store_name":     {Type: TypeString, Pattern: `(?m)^[ \t]*(?:store|merchant|shop)(?:[ \t]+name)?[ \t]*:[ \t]*([^\n]+)`},
			"transaction_id": {Type: TypeString, Pattern: `\btransaction[ \t]*(?:id|#|no\.?|number)[ \t]*[:#]?[ \t]*([a-z0-9][a-z0-9\-]*)`},
			"date":           {Type: TypeDate, Pattern: patDate},
			"subtotal":       {Type: TypeCurrency, Pattern: patSubtotal},
			"tax_amount":     {Type: TypeCurrency, Pattern: patTax},
			"total":          {Type: TypeCurrency, Pattern: patTotal},
			"payment_method": {Type: TypeString, Pattern: `\b(?:paid[ \t]+by|payment(?:[ \t]+method)?)[ \t]*:[ \t]*([^\n]+)`},
			"cashier":        {Type: TypeString, Pattern: `(?m)^[ \t]*cashier[ \t]*:[ \t]*([^\n]+)`},
			"change":         {Type: TypeCurrency, Pattern: `(?m)^[ \t]*change(?:[ \t]+due)?[ \t]*:[ \t]*([^\n]+)`},
		},
		"contract": {
			"party_a":          {Type: TypeString, Pattern: `\bbetween\s+([^,\n]+?)\s+(?:\([^)]*\)\s+)?and\s+`},
			"party_b":          {Type: TypeString, Pattern: `\bbetween\s+[^\n]+?\s+and\s+([^,.\n(]+)`},
			"effective_date":   {Type: TypeDate, Pattern: `\beffective[ \t]+(?:date|as[ \t]+of)[ \t]*:?[ \t]*([^\n]+)`},
			"termination_date": {Type: TypeDate, Pattern: `\b(?:termination|expiration|end)[ \t]+date[ \t]*:?[ \t]*([^\n]+)`},
			"governing_law":    {Type: TypeString, Pattern: `\bgoverned[ \t]+by[ \t]+the[ \t]+laws[ \t]+of[ \t]+(?:the[ \t]+)?([^,.\n]+)`},
			"contract_value":   {Type: TypeCurrency, Pattern: `\b(?:contract[ \t]+(?:value|amount|price)|total[ \t]+(?:fee|consideration))[ \t]*:?[ \t]*([^\n]+)`},
		},
		"bank_statement": {
			"bank_name":        {Type: TypeString, Pattern: `(?m)^[ \t]*bank(?:[ \t]+name)?[ \t]*:[ \t]*([^\n]+)`},
			"account_holder":   {Type: TypeString, Pattern: `(?m)^[ \t]*(?:account[ \t]+holder|account[ \t]+name|customer[ \t]+name)[ \t]*:[ \t]*([^\n]+)`},
			"account_number":   {Type: TypeString, Pattern: `\baccount[ \t]*(?:number|no\.?|#)[ \t]*[:#]?[ \t]*([a-z0-9*\-]+)`},
			"statement_period": {Type: TypeString, Pattern: `\bstatement[ \t]+period[ \t]*:?[ \t]*([^\n]+)`},
			"opening_balance":  {Type: TypeCurrency, Pattern: `\b(?:opening|beginning|previous)[ \t]+balance[ \t]*:?[ \t]*([^\n]+)`},
			"closing_balance":  {Type: TypeCurrency, Pattern: `\b(?:closing|ending|new)[ \t]+balance[ \t]*:?[ \t]*([^\n]+)`},
		},
		"tax_document": {
			"form_type":            {Type: TypeString, Pattern: `\bform[ \t]+(w-?2|1099(?:-[a-z]+)?|1040(?:-[a-z]+)?)`},
			"tax_year":             {Type: TypeString, Pattern: `\btax[ \t]+year[ \t]*:?[ \t]*((?:19|20)\d{2})`},
			"employer":             {Type: TypeString, Pattern: `(?m)^[ \t]*employer(?:'s)?(?:[ \t]+name)?[ \t]*:[ \t]*([^\n]+)`},
			"employee":             {Type: TypeString, Pattern: `(?m)^[ \t]*employee(?:'s)?(?:[ \t]+name)?[ \t]*:[ \t]*([^\n]+)`},
			"taxpayer_id":          {Type: TypeString, Pattern: `\b(?:ssn|ein|tin|social[ \t]+security[ \t]+number)[ \t]*[:#]?[ \t]*([\dx*]{3}-?[\dx*]{2}-?[\dx*]{4}|\d{2}-\d{7})`},
			"wages":                {Type: TypeCurrency, Pattern: `\bwages(?:,[ \t]*tips)?[^\n:]*:[ \t]*([^\n]+)`},
			"federal_tax_withheld": {Type: TypeCurrency, Pattern: `\bfederal[ \t]+(?:income[ \t]+)?tax[ \t]+withheld[ \t]*:?[ \t]*([^\n]+)`},
		},
		"medical": {
			"patient.name":    {Type: TypeString, Pattern: `\bpatient(?:[ \t]+name)?[ \t]*:[ \t]*([^\n]+)`},
			"patient.id":      {Type: TypeString, Pattern: `\bpatient[ \t]+id[ \t]*[:#]?[ \t]*([a-z0-9\-]+)`},
			"date_of_birth":   {Type: TypeDate, Pattern: `\b(?:date[ \t]+of[ \t]+birth|dob)[ \t]*:?[ \t]*([^\n]+)`},
			"date_of_service": {Type: TypeDate, Pattern: `\bdate[ \t]+of[ \t]+service[ \t]*:?[ \t]*([^\n]+)`},
			"diagnosis":       {Type: TypeString, Pattern: `\bdiagnosis[ \t]*:[ \t]*([^\n]+)`},
			"medication":      {Type: TypeString, Pattern: `\b(?:rx|medication|prescription)[ \t]*:[ \t]*([^\n]+)`},
			"physician":       {Type: TypeString, Pattern: `(?m)^[ \t]*(?:physician|doctor|provider|attending)[ \t]*:[ \t]*([^\n]+)`},
		},
		"general": {
			"date":      {Type: TypeDate, Pattern: patDate},
			"reference": {Type: TypeString, Pattern: `\bref(?:erence)?\.?[ \t]*(?:no\.?|number|#)?[ \t]*[:#][ \t]*([a-z0-9][a-z0-9\-/]*)`},
			"subject":   {Type: TypeString, Pattern: `(?m)^[ \t]*(?:subject|re)[ \t]*:[ \t]*([^\n]+)`},
			"total":     {Type: TypeCurrency, Pattern: patTotal},
			"email":     {Type: TypeEmail, Pattern: patEmail},
			"phone":     {Type: TypePhone, Pattern: patPhone},
		},
	}
}
