package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/joseph-ayodele/docsense/constants"
	"github.com/joseph-ayodele/docsense/internal/common"
	"github.com/joseph-ayodele/docsense/internal/core"
	"github.com/joseph-ayodele/docsense/internal/core/extract"
	"github.com/joseph-ayodele/docsense/internal/core/language"
	"github.com/joseph-ayodele/docsense/internal/core/markup"
)

// printError prints an error message to stderr, falling back to stdout if stderr fails
func printError(format string, args ...interface{}) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		fmt.Printf(format, args...)
	}
}

func main() {
	var (
		in         = flag.String("in", "-", "OCR output file to process, - for stdin")
		tables     = flag.String("tables", "", "file holding table HTML fragments (optional)")
		schema     = flag.String("schema", "", "force a schema or document type (e.g. bill) instead of routing by the classified type")
		schemaFile = flag.String("schema-file", "", "YAML/JSON file of custom schemas (overrides DOCSENSE_SCHEMA_FILE)")
		fields     = flag.String("fields", "", "comma separated field labels to extract instead of the structured result; \"default\" for the configured list")
		parse      = flag.Bool("parse", false, "print the page-level markup breakdown instead of the structured result")
		localize   = flag.Bool("localize", false, "print labels found in the detected language instead of the structured result")
		lang       = flag.String("lang", "", "with -localize, read labels in this language code instead of detecting it")
		validate   = flag.Bool("validate", false, "check extracted fields against the schema's JSON-Schema")
		pretty     = flag.Bool("pretty", true, "indent JSON output")
	)
	flag.Parse()

	cfg := common.LoadConfig()
	if *schemaFile != "" {
		cfg.Extract.SchemaFile = *schemaFile
	}
	if err := cfg.Validate(); err != nil {
		printError("Error: %v\n", err)
		os.Exit(2)
	}
	logger := common.NewLogger(cfg.Log)

	text, err := readInput(*in)
	if err != nil {
		printError("Error: read input: %v\n", err)
		os.Exit(1)
	}

	var fragments []string
	if *tables != "" {
		raw, err := os.ReadFile(*tables)
		if err != nil {
			printError("Error: read tables: %v\n", err)
			os.Exit(1)
		}
		fragments, _ = markup.NewParser(logger).ExtractTables(string(raw))
	}

	var out any
	switch {
	case *parse:
		out = markup.ToDict(markup.NewParser(logger).Parse(text))
	case *localize:
		loc := language.NewLocalizer(language.NewDetector(logger), logger)
		if *lang == "" {
			out = loc.ExtractLocalized(text, language.LocalizedFieldNames())
			break
		}
		l, ok := constants.ParseLanguage(strings.ToLower(strings.TrimSpace(*lang)))
		if !ok {
			printError("Error: unsupported language %q (supported: %s)\n", *lang, strings.Join(constants.SupportedLanguages(), ", "))
			os.Exit(2)
		}
		out = loc.ExtractLocalizedAs(text, language.LocalizedFieldNames(), l)
	case *fields != "":
		fx := extract.NewFieldExtractor(cfg.Extract.DefaultFields, logger)
		var enabled []string
		if *fields != "default" {
			enabled = splitList(*fields)
		}
		res := fx.Extract(text, enabled, nil)
		out = map[string]any{
			"fields":     fx.ToDict(res),
			"confidence": fx.ConfidenceScores(res),
			"statistics": fx.Statistics(res),
		}
	default:
		proc, schemas, err := core.NewProcessorFromConfig(cfg.Extract, logger, core.WithSchema(*schema))
		if err != nil {
			printError("Error: %v\n", err)
			os.Exit(1)
		}
		res := proc.Process(text, fragments)
		if *validate {
			s, _ := schemas.GetSchema(res.Schema)
			if err := extract.ValidateResult(s, res.ExtractedFields); err != nil {
				logger.Warn("docsense.validate.failed", "schema", res.Schema, "err", err)
				printError("Validation: %v\n", err)
			}
		}
		out = res
	}

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(out); err != nil {
		printError("Error: encode output: %v\n", err)
		os.Exit(1)
	}
}

func readInput(path string) (string, error) {
	if path == "-" {
		b, err := io.ReadAll(os.Stdin)
		return string(b), err
	}
	b, err := os.ReadFile(path)
	return string(b), err
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
