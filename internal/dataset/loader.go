package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Load parses delimited text into a Dataset and cleans it. The header row
// maps source columns to the expected schema; unmapped columns are silently
// skipped. A row with the wrong shape or a non-empty cell that does not
// parse as a number is a load failure: no partial dataset is returned.
func Load(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	index := make(map[Column]int)
	for i, h := range header {
		name := Column(strings.TrimSpace(h))
		for _, col := range ExpectedColumns {
			if name == col {
				index[col] = i
			}
		}
	}

	ds := &Dataset{columns: make(map[Column]bool, len(index))}
	for col := range index {
		ds.columns[col] = true
	}

	for row := 2; ; row++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to parse row %d: %w", row, err)
		}

		var recipe Recipe
		for _, col := range ExpectedColumns {
			i, ok := index[col]
			if !ok {
				continue
			}
			cell := strings.TrimSpace(record[i])

			if isNumericColumn(col) {
				if cell == "" {
					// Missing measurement, back-filled by Clean.
					recipe.setNumeric(col, math.NaN())
					continue
				}
				v, err := strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, fmt.Errorf("row %d: invalid %s value %q", row, col, cell)
				}
				recipe.setNumeric(col, v)
			} else {
				recipe.setText(col, cell)
			}
		}
		ds.Recipes = append(ds.Recipes, recipe)
	}

	Clean(ds)
	return ds, nil
}

// LoadFile reads and parses a dataset from a local file.
func LoadFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return Load(f)
}

func isNumericColumn(col Column) bool {
	for _, c := range NumericColumns {
		if c == col {
			return true
		}
	}
	return false
}
