package classify

import (
	"regexp"

	"github.com/joseph-ayodele/docsense/constants"
)

// typeProfile is the scoring configuration of one document type.
type typeProfile struct {
	docType  constants.DocumentType
	keywords []string
	patterns []*regexp.Regexp
	weight   float64
}

// maxScore is the best raw score a text can reach for this type.
func (p typeProfile) maxScore() float64 {
	return float64(len(p.keywords) + 2*len(p.patterns))
}

func mustCompileAll(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// buildProfiles returns the type table in declaration order. Patterns run against
// case-folded text, so they are written in lower case.
func buildProfiles() []typeProfile {
	return []typeProfile{
		{
			docType: constants.Invoice,
			keywords: []string{
				"invoice", "bill to", "ship to", "invoice number", "invoice date",
				"due date", "payment terms", "subtotal", "tax", "total due",
				"remit to", "purchase order", "qty", "unit price", "amount due",
			},
			patterns: mustCompileAll(
				`invoice\s*#?\s*:?\s*\w+`,
				`inv\s*-?\s*\d+`,
				`bill\s+to\s*:`,
				`payment\s+due`,
				`total\s+amount\s*:?\s*\$?`,
			),
			weight: 1.0,
		},
		{
			docType: constants.Receipt,
			keywords: []string{
				"receipt", "transaction", "paid", "cash", "credit card",
				"change", "subtotal", "tax", "total", "thank you",
				"store", "cashier", "items",
			},
			patterns: mustCompileAll(
				`receipt\s*#?\s*:?\s*\w+`,
				`transaction\s*id`,
				`paid\s+by`,
				`change\s*:?\s*\$?\d+`,
			),
			weight: 1.0,
		},
		{
			docType: constants.Contract,
			keywords: []string{
				"agreement", "contract", "terms and conditions", "party",
				"whereas", "hereby", "witnesseth", "covenant", "binding",
				"executed", "signature", "effective date", "termination",
			},
			patterns: mustCompileAll(
				`this\s+agreement`,
				`parties\s+agree`,
				`terms\s+and\s+conditions`,
				`binding\s+agreement`,
			),
			weight: 1.0,
		},
		{
			docType: constants.Form,
			keywords: []string{
				"form", "application", "please fill", "required fields",
				"checkbox", "select", "signature required", "date of birth",
				"applicant", "submit",
			},
			patterns: mustCompileAll(
				`form\s*#?\s*:?\s*\w+`,
				`please\s+(fill|complete)`,
				`\[\s*\]`,
				`_+\s*\(.*?\)`,
			),
			weight: 1.0,
		},
		{
			docType: constants.Letter,
			keywords: []string{
				"dear", "sincerely", "regards", "yours truly", "to whom",
				"attention", "re:", "subject:", "enclosed",
			},
			patterns: mustCompileAll(
				`dear\s+\w+`,
				`sincerely\s*,`,
				`regards\s*,`,
				`to\s+whom\s+it\s+may\s+concern`,
			),
			weight: 0.9,
		},
		{
			docType: constants.Report,
			keywords: []string{
				"report", "summary", "analysis", "findings", "conclusion",
				"executive summary", "methodology", "results", "recommendations",
			},
			patterns: mustCompileAll(
				`executive\s+summary`,
				`table\s+of\s+contents`,
				`section\s+\d+`,
				`figure\s+\d+`,
			),
			weight: 0.9,
		},
		{
			docType: constants.IDDocument,
			keywords: []string{
				"passport", "driver license", "identification", "id card",
				"date of birth", "expiry", "nationality", "sex", "height",
			},
			patterns: mustCompileAll(
				`passport\s*no`,
				`license\s*#`,
				`date\s+of\s+birth`,
				`expir(y|ation)\s+date`,
			),
			weight: 1.0,
		},
		{
			docType: constants.BankStatement,
			keywords: []string{
				"statement", "account", "balance", "deposit", "withdrawal",
				"transaction", "opening balance", "closing balance", "interest",
			},
			patterns: mustCompileAll(
				`account\s*(number|#)`,
				`statement\s+period`,
				`opening\s+balance`,
				`closing\s+balance`,
			),
			weight: 1.0,
		},
		{
			docType: constants.TaxDocument,
			keywords: []string{
				"tax", "w-2", "1099", "irs", "income", "deduction",
				"federal", "state", "employer", "wages", "withholding",
			},
			patterns: mustCompileAll(
				`form\s+w-?2`,
				`form\s+1099`,
				`tax\s+year`,
				`taxable\s+income`,
			),
			weight: 1.0,
		},
		{
			docType: constants.Medical,
			keywords: []string{
				"patient", "diagnosis", "prescription", "medication",
				"doctor", "physician", "hospital", "clinic", "medical",
				"treatment", "dosage", "symptoms",
			},
			patterns: mustCompileAll(
				`patient\s+(name|id)`,
				`date\s+of\s+service`,
				`diagnosis\s*:`,
				`rx\s*:`,
			),
			weight: 1.0,
		},
	}
}
