package export

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/docsense/internal/entity"
)

// Sheet names, in workbook order.
const (
	SheetDocuments = "Documents"
	SheetFields    = "Fields"
	SheetLineItems = "Line Items"
	SheetEntities  = "Entities"
)

// Service renders batch results as an XLSX workbook.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

type sheetWriter struct {
	f     *excelize.File
	sheet string
	row   int
}

func (w *sheetWriter) write(values ...any) {
	for i, v := range values {
		cell, _ := excelize.CoordinatesToCellName(i+1, w.row)
		_ = w.f.SetCellValue(w.sheet, cell, v)
	}
	w.row++
}

func newSheet(f *excelize.File, name string, headers ...any) (*sheetWriter, error) {
	if index, _ := f.GetSheetIndex(name); index == -1 {
		if _, err := f.NewSheet(name); err != nil {
			return nil, err
		}
	}
	w := &sheetWriter{f: f, sheet: name, row: 1}
	w.write(headers...)
	return w, nil
}

// ExportJobsXLSX returns a workbook (as bytes) with one row per job on the
// Documents sheet and the fields, line items and entities of successful jobs on
// their own sheets. Jobs are written in the order given.
func (s *Service) ExportJobsXLSX(ctx context.Context, jobs []entity.ProcessJob) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	docs, err := newSheet(f, SheetDocuments,
		"Job ID", "Source Path", "Status", "Document Type", "Confidence",
		"Language", "Language Confidence", "Schema", "Fields", "Line Items",
		"Entities", "Error Code", "Error",
	)
	if err != nil {
		return nil, err
	}
	fields, err := newSheet(f, SheetFields, "Source Path", "Field", "Value")
	if err != nil {
		return nil, err
	}
	items, err := newSheet(f, SheetLineItems, "Source Path", "Description", "Category", "Quantity", "Unit Price", "Amount")
	if err != nil {
		return nil, err
	}
	ents, err := newSheet(f, SheetEntities, "Source Path", "Type", "Value", "Offset")
	if err != nil {
		return nil, err
	}

	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		r := j.Result
		if r == nil {
			docs.write(j.ID.String(), j.SourcePath, string(j.Status), "", "", "", "", "", 0, 0, 0,
				j.ErrorCode, truncate(j.ErrorMessage, 140))
			continue
		}

		flat := FlattenFields(r.ExtractedFields)
		docs.write(j.ID.String(), j.SourcePath, string(j.Status), string(r.DocumentType), r.Confidence,
			string(r.Language), r.LanguageConfidence, r.Schema, len(flat), len(r.LineItems), len(r.Entities),
			j.ErrorCode, truncate(j.ErrorMessage, 140))

		for _, key := range sortedKeys(flat) {
			fields.write(j.SourcePath, key, flat[key])
		}
		for _, li := range r.LineItems {
			items.write(j.SourcePath, li.Description, li.Category, li.Quantity, li.UnitPrice, li.Amount)
		}
		for _, e := range r.Entities {
			ents.write(j.SourcePath, e.Type, e.Value, e.Offset)
		}
	}

	// Widen a few columns
	_ = f.SetColWidth(SheetDocuments, "B", "B", 60) // path
	_ = f.SetColWidth(SheetDocuments, "D", "D", 16) // type
	_ = f.SetColWidth(SheetDocuments, "M", "M", 48) // error
	_ = f.SetColWidth(SheetFields, "A", "A", 60)
	_ = f.SetColWidth(SheetFields, "B", "C", 28)
	_ = f.SetColWidth(SheetLineItems, "A", "A", 60)
	_ = f.SetColWidth(SheetLineItems, "B", "B", 40)
	_ = f.SetColWidth(SheetEntities, "A", "A", 60)
	_ = f.SetColWidth(SheetEntities, "C", "C", 32)

	_ = f.DeleteSheet("Sheet1")
	index, _ := f.GetSheetIndex(SheetDocuments)
	f.SetActiveSheet(index)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("export.xlsx.ok",
		"jobs", len(jobs),
		"field_rows", fields.row-2,
		"line_item_rows", items.row-2,
		"entity_rows", ents.row-2,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// WriteJobsXLSX writes the workbook to path.
func (s *Service) WriteJobsXLSX(ctx context.Context, path string, jobs []entity.ProcessJob) error {
	b, err := s.ExportJobsXLSX(ctx, jobs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// FlattenFields turns nested extracted fields into dotted keys, the inverse of
// how schema extraction nests "bill_to.name".
func FlattenFields(fields map[string]any) map[string]string {
	out := map[string]string{}
	flattenInto(out, "", fields)
	return out
}

func flattenInto(out map[string]string, prefix string, m map[string]any) {
	for k, v := range m {
		key := k
		if prefix != "" {
			key = prefix + "." + k
		}
		switch tv := v.(type) {
		case map[string]any:
			flattenInto(out, key, tv)
		case string:
			out[key] = tv
		default:
			out[key] = fmt.Sprint(tv)
		}
	}
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	if n <= 1 {
		return s[:n]
	}
	return s[:n-1] + "…"
}
