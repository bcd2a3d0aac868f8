package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/docsense/constants"
	"github.com/joseph-ayodele/docsense/internal/common"
	"github.com/joseph-ayodele/docsense/internal/core/markup"
	"github.com/joseph-ayodele/docsense/internal/entity"
)

// MaxFileSize bounds a single OCR output read into memory.
const MaxFileSize = 32 << 20

// FSIngestor reads OCR outputs from the local filesystem.
type FSIngestor struct {
	Store  DocumentStore
	markup *markup.Parser
	logger *slog.Logger
}

func NewFSIngestor(store DocumentStore, logger *slog.Logger) *FSIngestor {
	if logger == nil {
		logger = slog.Default()
	}
	if store == nil {
		store = NewMemoryStore()
	}
	return &FSIngestor{
		Store:  store,
		markup: markup.NewParser(logger),
		logger: logger,
	}
}

// IngestPath reads one document and its optional "<name>.tables.html" sidecar.
// The content hash covers both, so editing either yields a new document.
func (i *FSIngestor) IngestPath(ctx context.Context, path string) (IngestionResult, error) {
	var out IngestionResult

	abs, err := filepath.Abs(path)
	if err != nil {
		i.logger.Error("ingest.abs.failed", "path", path, "err", err)
		return out, common.WrapError(err, "abs path")
	}

	ext := constants.NormalizeExt(filepath.Ext(abs))
	if ext == "" || !AllowedExt(ext) || IsTablesSidecar(abs) {
		i.logger.Warn("ingest.ext.unsupported", "path", abs, "ext", ext)
		return out, common.NewAppError(common.CodeInvalidInput, fmt.Sprintf("unsupported or missing extension: %q", ext), common.ErrInvalidInput)
	}

	text, err := readLimited(abs)
	if err != nil {
		i.logger.Error("ingest.read.failed", "path", abs, "err", err)
		return out, err
	}
	if !utf8.Valid(text) {
		return out, common.NewAppError(common.CodeInvalidInput, "file is not valid UTF-8: "+abs, common.ErrInvalidInput)
	}

	h := sha256.New()
	h.Write(text)

	var tables []string
	tablesPath := TablesPathFor(abs)
	sidecar, err := readLimited(tablesPath)
	switch {
	case err == nil:
		h.Write(sidecar)
		tables, _ = i.markup.ExtractTables(string(sidecar))
	case errors.Is(err, fs.ErrNotExist):
		tablesPath = ""
	default:
		i.logger.Warn("ingest.sidecar.unreadable", "path", tablesPath, "err", err)
		tablesPath = ""
	}

	if err := ctx.Err(); err != nil {
		return out, err
	}

	sum := h.Sum(nil)
	doc := &entity.Document{
		ID:          uuid.New(),
		SourcePath:  abs,
		ContentHash: sum,
		Filename:    filepath.Base(abs),
		FileExt:     ext,
		FileSize:    len(text),
		Text:        string(text),
		TablesHTML:  tables,
		TablesPath:  tablesPath,
		IngestedAt:  time.Now().UTC(),
	}

	row, dedup, err := i.Store.UpsertByHash(ctx, doc)
	if err != nil {
		return out, err
	}

	out = IngestionResult{
		SourcePath:   row.SourcePath,
		DocumentID:   row.ID.String(),
		Deduplicated: dedup,
		HashHex:      hex.EncodeToString(sum),
		FileExt:      row.FileExt,
		IngestedAt:   row.IngestedAt,
		Document:     row,
	}
	i.logger.Debug("ingest.path.ok",
		"path", abs,
		"document_id", out.DocumentID,
		"dedup", dedup,
		"tables", len(tables),
	)
	return out, nil
}

func readLimited(path string) ([]byte, error) {
	st, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	if st.IsDir() {
		return nil, common.NewAppError(common.CodeInvalidInput, "is a directory: "+path, common.ErrInvalidInput)
	}
	if st.Size() > MaxFileSize {
		return nil, common.NewAppError(common.CodeInvalidInput, fmt.Sprintf("file too large: %d bytes", st.Size()), common.ErrInvalidInput)
	}
	return os.ReadFile(path)
}
