package catalog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ImportConfig describes where verbs live in a spreadsheet.
type ImportConfig struct {
	FilePath     string
	SheetName    string // empty = first sheet
	VerbColumn   int    // 0-based column index
	FamilyColumn int
	RankColumn   int // negative = no rank column
	StartRow     int // 1-based first data row
}

// DefaultImportConfig reads verb, family and frequency rank from columns
// A, B and C, skipping a header row.
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		VerbColumn:   0,
		FamilyColumn: 1,
		RankColumn:   2,
		StartRow:     2,
	}
}

// ImportResult summarizes an import.
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// ImportVerbs reads verbs from an .xlsx file. Malformed rows are skipped and
// reported in the result rather than failing the whole import.
func ImportVerbs(cfg ImportConfig) ([]Verb, *ImportResult, error) {
	f, err := excelize.OpenFile(cfg.FilePath)
	if err != nil {
		return nil, nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := cfg.SheetName
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	result := &ImportResult{}
	seen := make(map[string]bool)
	var verbs []Verb
	for i, row := range rows {
		rowNum := i + 1
		if rowNum < cfg.StartRow {
			continue
		}
		if isBlank(row) {
			continue
		}
		result.TotalProcessed++

		v, err := parseRow(row, cfg)
		if err != nil {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: %v", rowNum, err))
			continue
		}
		if seen[v.ID] {
			result.Skipped++
			result.Errors = append(result.Errors, fmt.Sprintf("row %d: duplicate verb %q", rowNum, v.ID))
			continue
		}
		seen[v.ID] = true
		verbs = append(verbs, v)
		result.Imported++
	}
	return verbs, result, nil
}

func parseRow(row []string, cfg ImportConfig) (Verb, error) {
	id := strings.ToLower(strings.TrimSpace(cell(row, cfg.VerbColumn)))
	if id == "" {
		return Verb{}, fmt.Errorf("missing verb")
	}
	famRaw := strings.ToLower(strings.TrimSpace(cell(row, cfg.FamilyColumn)))
	if famRaw == "" {
		famRaw = string(FamilyRegular)
	}
	fam, err := ParseFamily(famRaw)
	if err != nil {
		return Verb{}, err
	}
	v := Verb{ID: id, Family: fam}
	if cfg.RankColumn >= 0 {
		if raw := strings.TrimSpace(cell(row, cfg.RankColumn)); raw != "" {
			rank, err := strconv.Atoi(raw)
			if err != nil || rank < 0 {
				return Verb{}, fmt.Errorf("invalid frequency rank %q", raw)
			}
			v.FrequencyRank = rank
		}
	}
	return v, nil
}

func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
