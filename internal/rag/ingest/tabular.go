package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/elvispulaj/insight-forge/internal/config"
)

// table is the normalized form of any tabular artifact before it is
// rendered into a context string.
type table struct {
	headers []string
	rows    [][]string
}

func extractTabular(path string, ext string) ([]rawPage, error) {
	var (
		tbl *table
		err error
	)
	switch ext {
	case ".csv":
		tbl, err = parseCSV(path)
	case ".json":
		tbl, err = parseJSONTabular(path)
	default:
		return nil, fmt.Errorf("unsupported tabular format: %s", ext)
	}
	if err != nil {
		return nil, err
	}

	return []rawPage{
		{
			Number:  1,
			Content: renderTabularContext(tbl, config.TabularSampleRows),
		},
	}, nil
}

func parseCSV(path string) (*table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open csv: %w", err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	if len(records) == 0 {
		return &table{}, nil
	}
	return &table{headers: records[0], rows: records[1:]}, nil
}

// parseJSONTabular accepts an array of objects, or an object wrapping one
// somewhere in its values, the way spreadsheet-ish JSON exports usually look.
func parseJSONTabular(path string) (*table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read json: %w", err)
	}

	var asList []map[string]any
	if err := json.Unmarshal(data, &asList); err == nil {
		return recordsToTable(asList), nil
	}

	var asObject map[string]any
	if err := json.Unmarshal(data, &asObject); err != nil {
		return nil, fmt.Errorf("failed to parse json: %w", err)
	}
	for _, value := range asObject {
		if inner, ok := value.([]any); ok {
			records := make([]map[string]any, 0, len(inner))
			for _, item := range inner {
				if rec, ok := item.(map[string]any); ok {
					records = append(records, rec)
				}
			}
			if len(records) > 0 {
				return recordsToTable(records), nil
			}
		}
	}
	// a lone object becomes a single-row table
	return recordsToTable([]map[string]any{asObject}), nil
}

func recordsToTable(records []map[string]any) *table {
	if len(records) == 0 {
		return &table{}
	}

	headerSet := map[string]bool{}
	var headers []string
	for _, rec := range records {
		for key := range rec {
			if !headerSet[key] {
				headerSet[key] = true
				headers = append(headers, key)
			}
		}
	}
	sort.Strings(headers)

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := make([]string, len(headers))
		for i, h := range headers {
			if v, ok := rec[h]; ok && v != nil {
				row[i] = fmt.Sprintf("%v", v)
			}
		}
		rows = append(rows, row)
	}
	return &table{headers: headers, rows: rows}
}

// renderTabularContext turns a table into the text block the LLM and the
// similarity index both consume: shape, column kinds, numeric statistics,
// missing counts and a bounded sample.
func renderTabularContext(tbl *table, maxRows int) string {
	var lines []string
	lines = append(lines, fmt.Sprintf("Dataset Shape: %d rows × %d columns", len(tbl.rows), len(tbl.headers)))
	if len(tbl.headers) == 0 {
		return lines[0]
	}
	lines = append(lines, fmt.Sprintf("Columns: %s", strings.Join(tbl.headers, ", ")))

	lines = append(lines, "\nColumn Types:")
	for i, h := range tbl.headers {
		lines = append(lines, fmt.Sprintf("%s: %s", h, columnKind(tbl, i)))
	}

	var statLines []string
	for i, h := range tbl.headers {
		if min, max, mean, ok := numericStats(tbl, i); ok {
			statLines = append(statLines, fmt.Sprintf("%s: min=%s max=%s mean=%s",
				h, formatFloat(min), formatFloat(max), formatFloat(mean)))
		}
	}
	if len(statLines) > 0 {
		lines = append(lines, "\nBasic Statistics:")
		lines = append(lines, statLines...)
	}

	lines = append(lines, "\nMissing Values:")
	for i, h := range tbl.headers {
		lines = append(lines, fmt.Sprintf("%s: %d", h, missingCount(tbl, i)))
	}

	sampleSize := len(tbl.rows)
	if sampleSize > maxRows {
		sampleSize = maxRows
	}
	lines = append(lines, fmt.Sprintf("\nSample Data (%d rows):", sampleSize))
	lines = append(lines, strings.Join(tbl.headers, " | "))
	for _, row := range tbl.rows[:sampleSize] {
		lines = append(lines, strings.Join(row, " | "))
	}

	return strings.Join(lines, "\n")
}

func columnKind(tbl *table, col int) string {
	if _, _, _, ok := numericStats(tbl, col); ok {
		return "numeric"
	}
	return "text"
}

func numericStats(tbl *table, col int) (min float64, max float64, mean float64, ok bool) {
	count := 0
	sum := 0.0
	for _, row := range tbl.rows {
		if col >= len(row) || strings.TrimSpace(row[col]) == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(row[col]), 64)
		if err != nil {
			return 0, 0, 0, false
		}
		if count == 0 || v < min {
			min = v
		}
		if count == 0 || v > max {
			max = v
		}
		sum += v
		count++
	}
	if count == 0 {
		return 0, 0, 0, false
	}
	return min, max, sum / float64(count), true
}

func missingCount(tbl *table, col int) int {
	missing := 0
	for _, row := range tbl.rows {
		if col >= len(row) || strings.TrimSpace(row[col]) == "" {
			missing++
		}
	}
	return missing
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', 6, 64)
}
