package catalog

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestImportJSONWrappedEntries(t *testing.T) {
	path := writeFile(t, "full-word.json", `[
		{"key": 1, "value": {"word": "abandon", "definition": "leave"}},
		{"key": 2, "value": {"word": "ability"}},
		{"key": 3, "value": {}},
		{"key": 4, "value": {"word": "abandon"}}
	]`)

	words, err := Import(DefaultImportConfig(path))
	require.NoError(t, err)
	assert.Equal(t, []string{"abandon", "ability"}, words)
}

func TestImportJSONMixedShapes(t *testing.T) {
	path := writeFile(t, "words.json", `["cat", {"word": "dog"}, 42, "  sun  ", ""]`)

	words, err := Import(DefaultImportConfig(path))
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog", "sun"}, words)
}

func TestImportCSV(t *testing.T) {
	path := writeFile(t, "words.csv", "word,translation\ngo (went; gone),идти\nrun,бежать\n\nsky,небо\n")

	cfg := DefaultImportConfig(path)
	cfg.StartRow = 2
	words, err := Import(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "run", "sky"}, words)
}

func TestImportCSVSecondColumn(t *testing.T) {
	path := writeFile(t, "words.csv", "1,cat\n2,dog\n3\n")

	cfg := DefaultImportConfig(path)
	cfg.WordColumn = "B"
	words, err := Import(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog"}, words)
}

func TestImportExcel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "words.xlsx")
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetCellValue(sheet, "A1", "Word"))
	require.NoError(t, f.SetCellValue(sheet, "A2", "cat"))
	require.NoError(t, f.SetCellValue(sheet, "A3", "dog"))
	require.NoError(t, f.SetCellValue(sheet, "A4", "cat"))
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	cfg := DefaultImportConfig(path)
	cfg.StartRow = 2
	words, err := Import(cfg)
	require.NoError(t, err)
	assert.Equal(t, []string{"cat", "dog"}, words)
}

func TestLoadFallsBackToEmptyCatalog(t *testing.T) {
	logger := discardLogger()

	missing := Load(logger, DefaultImportConfig(filepath.Join(t.TempDir(), "nope.json")))
	assert.NotNil(t, missing)
	assert.Empty(t, missing)

	malformed := Load(logger, DefaultImportConfig(writeFile(t, "bad.json", `{"not": "a list"`)))
	assert.Empty(t, malformed)

	unsupported := Load(logger, DefaultImportConfig(writeFile(t, "words.txt", "cat\n")))
	assert.Empty(t, unsupported)
}

func TestColumnToIndex(t *testing.T) {
	assert.Equal(t, 0, columnToIndex("A"))
	assert.Equal(t, 1, columnToIndex("b"))
	assert.Equal(t, 26, columnToIndex("AA"))
	assert.Equal(t, 0, columnToIndex(""))
}
