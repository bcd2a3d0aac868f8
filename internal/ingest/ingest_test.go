package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/docsense/internal/common"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestIngestPath(t *testing.T) {
	dir := t.TempDir()
	ing := NewFSIngestor(nil, nil)
	ctx := context.Background()

	t.Run("text with sidecar tables", func(t *testing.T) {
		doc := filepath.Join(dir, "scan-01.txt")
		writeFile(t, doc, "Invoice Number: INV-1\nTotal: $10.00")
		writeFile(t, filepath.Join(dir, "scan-01.tables.html"),
			"<table><tr><td>A</td></tr></table>\n<table><tr><td>B</td></tr></table>")

		res, err := ing.IngestPath(ctx, doc)
		require.NoError(t, err)
		assert.False(t, res.Deduplicated)
		assert.Equal(t, "txt", res.FileExt)
		assert.Len(t, res.HashHex, 64)
		require.NotNil(t, res.Document)
		assert.Equal(t, "Invoice Number: INV-1\nTotal: $10.00", res.Document.Text)
		assert.Len(t, res.Document.TablesHTML, 2)
		assert.Equal(t, filepath.Join(dir, "scan-01.tables.html"), res.Document.TablesPath)
		assert.Equal(t, "scan-01.txt", res.Document.Filename)
	})

	t.Run("same content is deduplicated", func(t *testing.T) {
		a := filepath.Join(dir, "dup-a.md")
		b := filepath.Join(dir, "dup-b.md")
		writeFile(t, a, "same body")
		writeFile(t, b, "same body")

		first, err := ing.IngestPath(ctx, a)
		require.NoError(t, err)
		second, err := ing.IngestPath(ctx, b)
		require.NoError(t, err)
		assert.True(t, second.Deduplicated)
		assert.Equal(t, first.DocumentID, second.DocumentID)
		assert.Equal(t, first.SourcePath, second.SourcePath)
	})

	t.Run("unsupported extension", func(t *testing.T) {
		p := filepath.Join(dir, "photo.png")
		writeFile(t, p, "x")
		_, err := ing.IngestPath(ctx, p)
		require.Error(t, err)
		assert.True(t, common.IsCode(err, common.CodeInvalidInput))
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ing.IngestPath(ctx, filepath.Join(dir, "nope.txt"))
		assert.Error(t, err)
	})

	t.Run("invalid utf8", func(t *testing.T) {
		p := filepath.Join(dir, "binary.txt")
		writeFile(t, p, "\xff\xfe\xfd")
		_, err := ing.IngestPath(ctx, p)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})
}

func TestIngestDirectory(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.txt"), "alpha")
	writeFile(t, filepath.Join(dir, "a.tables.html"), "<table><tr><td>1</td></tr></table>")
	writeFile(t, filepath.Join(dir, "nested", "b.mmd"), "beta")
	writeFile(t, filepath.Join(dir, "nested", "c.md"), "beta")
	writeFile(t, filepath.Join(dir, "image.jpg"), "jpg")
	writeFile(t, filepath.Join(dir, ".hidden", "d.txt"), "delta")

	ing := NewFSIngestor(NewMemoryStore(), nil)
	results, stats, err := ing.IngestDirectory(context.Background(), dir, true)
	require.NoError(t, err)

	assert.Len(t, results, 3)
	assert.EqualValues(t, 3, stats.Matched)
	assert.EqualValues(t, 3, stats.Succeeded)
	assert.EqualValues(t, 1, stats.Deduplicated)
	assert.EqualValues(t, 0, stats.Failed)
	assert.Equal(t, 2, ing.Store.Count())

	_, _, err = ing.IngestDirectory(context.Background(), "  ", false)
	assert.Error(t, err)
}

func TestPathHelpers(t *testing.T) {
	assert.True(t, AllowedExt(".TXT"))
	assert.True(t, AllowedExt("mmd"))
	assert.False(t, AllowedExt("pdf"))
	assert.True(t, IsHidden("/x/.git"))
	assert.False(t, IsHidden("/x/git"))
	assert.True(t, IsTablesSidecar("/x/scan.TABLES.html"))
	assert.Equal(t, "/x/scan.tables.html", TablesPathFor("/x/scan.txt"))

	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "r.md"), "x")
	assert.Equal(t, filepath.Join(dir, "r.md"), DocumentPathFor(filepath.Join(dir, "r.tables.html")))
	assert.Equal(t, "", DocumentPathFor(filepath.Join(dir, "none.tables.html")))
}
