// Package catalog loads the static vocabulary list the scheduler draws new words from.
package catalog

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportConfig defines where and how the word list is read
type ImportConfig struct {
	FilePath   string // Path to a JSON, CSV or Excel file
	WordColumn string // Column with the word (CSV and Excel)
	SheetName  string // Excel sheet; the first sheet when empty
	StartRow   int    // First row holding a word (1-based, CSV and Excel)
}

// DefaultImportConfig returns the default import configuration for path
func DefaultImportConfig(path string) ImportConfig {
	return ImportConfig{
		FilePath:   path,
		WordColumn: "A",
		StartRow:   1,
	}
}

// Load reads the catalog described by config. A missing or malformed source yields
// an empty catalog: the drill treats that as "nothing to study", not as a failure.
func Load(logger *slog.Logger, config ImportConfig) []string {
	words, err := Import(config)
	if err != nil {
		logger.Warn("vocabulary catalog unavailable, continuing with an empty catalog",
			"path", config.FilePath,
			"error", err)
		return []string{}
	}
	logger.Info("vocabulary catalog loaded", "path", config.FilePath, "words", len(words))
	return words
}

// Import reads the catalog and returns its words in file order, trimmed and deduplicated
func Import(config ImportConfig) ([]string, error) {
	var (
		raw []string
		err error
	)

	switch strings.ToLower(filepath.Ext(config.FilePath)) {
	case ".json":
		raw, err = importFromJSON(config.FilePath)
	case ".csv":
		raw, err = importFromCSV(config)
	case ".xlsx", ".xlsm":
		raw, err = importFromExcel(config)
	default:
		return nil, fmt.Errorf("unsupported catalog format: %q", config.FilePath)
	}
	if err != nil {
		return nil, err
	}
	return normalize(raw), nil
}

// catalogEntry matches both {"value": {"word": "..."}} and {"word": "..."}
type catalogEntry struct {
	Word  string `json:"word"`
	Value struct {
		Word string `json:"word"`
	} `json:"value"`
}

// importFromJSON reads either a list of strings or a list of word objects
func importFromJSON(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON catalog: %w", err)
	}

	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse JSON catalog: %w", err)
	}

	words := make([]string, 0, len(items))
	for _, item := range items {
		var plain string
		if err := json.Unmarshal(item, &plain); err == nil {
			words = append(words, plain)
			continue
		}

		var entry catalogEntry
		if err := json.Unmarshal(item, &entry); err != nil {
			// Skip entries of an unknown shape
			continue
		}
		if entry.Value.Word != "" {
			words = append(words, entry.Value.Word)
		} else {
			words = append(words, entry.Word)
		}
	}
	return words, nil
}

// importFromCSV reads the word column of a CSV file
func importFromCSV(config ImportConfig) ([]string, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	col := columnToIndex(config.WordColumn)
	var words []string
	rowNum := 0
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}
		if col < len(row) {
			words = append(words, row[col])
		}
	}
	return words, nil
}

// importFromExcel reads the word column of an Excel sheet
func importFromExcel(config ImportConfig) ([]string, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	sheet := config.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, fmt.Errorf("excel file has no sheets")
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	col := columnToIndex(config.WordColumn)
	var words []string
	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		if col < len(row) {
			words = append(words, row[col])
		}
	}
	return words, nil
}

// normalize trims words, strips trailing notes such as "go (went, gone)" and drops
// empty and repeated entries while keeping the first occurrence's position
func normalize(raw []string) []string {
	words := make([]string, 0, len(raw))
	seen := make(map[string]bool, len(raw))
	for _, w := range raw {
		w = cleanWord(w)
		if w == "" || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}
	return words
}

// cleanWord removes the parenthesised part of an entry
func cleanWord(word string) string {
	if idx := strings.Index(word, "("); idx > 0 {
		return strings.TrimSpace(word[:idx])
	}
	return strings.TrimSpace(word)
}

// columnToIndex converts an Excel column letter to a zero-based index
func columnToIndex(column string) int {
	column = strings.ToUpper(strings.TrimSpace(column))
	if column == "" {
		return 0
	}
	index := 0
	for i := 0; i < len(column); i++ {
		index = index*26 + int(column[i]-'A'+1)
	}
	return index - 1
}
