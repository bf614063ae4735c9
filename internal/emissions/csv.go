package emissions

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// RequiredColumns lists the header columns a bulk upload must carry, in
// canonical order. Uploads may carry extra columns; those are ignored.
var RequiredColumns = []string{
	"business_id",
	"business_type",
	"date",
	"source_category",
	"activity",
	"amount",
	"unit",
	"emission_factor",
	"scope",
}

// ParseCSV reads a bulk upload into entries. The first row must be a
// header containing every required column. Parsing is all or nothing:
// any malformed row fails the whole upload so a partial dataset never
// replaces the table.
func ParseCSV(r io.Reader) ([]Entry, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, emptyCSVError()
		}
		return nil, rowShapeError(err, 1)
	}

	columns, err := mapColumns(header)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, rowShapeError(err, line)
		}

		entry, err := parseRow(row, columns, line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	getLogger().Debug("parsed CSV upload",
		"rows", len(entries),
		"columns", len(header))

	return entries, nil
}

// mapColumns resolves required column names to positions in the header.
// Column matching is exact after trimming surrounding whitespace; a BOM
// on the first cell is stripped.
func mapColumns(header []string) (map[string]int, error) {
	positions := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\uFEFF")
		}
		positions[strings.TrimSpace(name)] = i
	}

	var missing []string
	columns := make(map[string]int, len(RequiredColumns))
	for _, name := range RequiredColumns {
		idx, ok := positions[name]
		if !ok {
			missing = append(missing, name)
			continue
		}
		columns[name] = idx
	}
	if len(missing) > 0 {
		return nil, missingColumnsError(missing)
	}
	return columns, nil
}

func parseRow(row []string, columns map[string]int, line int) (Entry, error) {
	cell := func(name string) string {
		idx := columns[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	amount, err := parseFloatCell(cell("amount"), "amount", line)
	if err != nil {
		return Entry{}, err
	}
	factor, err := parseFloatCell(cell("emission_factor"), "emission_factor", line)
	if err != nil {
		return Entry{}, err
	}

	return Entry{
		BusinessID:     cell("business_id"),
		BusinessType:   cell("business_type"),
		Date:           cell("date"),
		SourceCategory: cell("source_category"),
		Activity:       cell("activity"),
		Amount:         amount,
		Unit:           cell("unit"),
		EmissionFactor: factor,
		Scope:          cell("scope"),
	}, nil
}

func parseFloatCell(value, column string, line int) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, rowParseError(
			fmt.Errorf("invalid numeric value %q in column %s", value, column),
			line, column, value)
	}
	return f, nil
}
