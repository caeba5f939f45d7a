package dataset

import (
	"math"

	"github.com/rs/zerolog/log"
)

// FallbackCategory substitutes a categorical value when a column has no
// non-missing values at all.
const FallbackCategory = "Unknown"

// Clean fills missing values in place: numeric columns with the column mean
// (computed over non-missing values only), categorical columns with the most
// frequent value, ties broken by first-encountered order. Cleaning an
// already-clean dataset is a no-op.
func Clean(ds *Dataset) {
	if ds == nil {
		return
	}

	for _, col := range NumericColumns {
		if !ds.Has(col) {
			continue
		}
		fillNumeric(ds, col)
	}

	for _, col := range CategoricalColumns {
		if !ds.Has(col) {
			continue
		}
		fillCategorical(ds, col)
	}
}

func fillNumeric(ds *Dataset, col Column) {
	var sum float64
	var present int
	for _, r := range ds.Recipes {
		if v := r.Numeric(col); !math.IsNaN(v) {
			sum += v
			present++
		}
	}

	fill := 0.0
	if present > 0 {
		fill = sum / float64(present)
	} else if len(ds.Recipes) > 0 {
		log.Warn().Str("column", string(col)).Msg("Column has no values, filling with 0")
	}

	filled := 0
	for i := range ds.Recipes {
		if math.IsNaN(ds.Recipes[i].Numeric(col)) {
			ds.Recipes[i].setNumeric(col, fill)
			filled++
		}
	}
	if filled > 0 {
		log.Debug().
			Str("column", string(col)).
			Int("filled", filled).
			Float64("mean", fill).
			Msg("Filled missing numeric values")
	}
}

func fillCategorical(ds *Dataset, col Column) {
	fill := Mode(ds, col)
	if fill == "" {
		fill = FallbackCategory
	}

	filled := 0
	for i := range ds.Recipes {
		if ds.Recipes[i].Text(col) == "" {
			ds.Recipes[i].setText(col, fill)
			filled++
		}
	}
	if filled > 0 {
		log.Debug().
			Str("column", string(col)).
			Int("filled", filled).
			Str("value", fill).
			Msg("Filled missing categorical values")
	}
}

// Mode returns the most frequent non-missing value of a categorical column,
// or "" when the column has no values. Ties go to the first-encountered
// value.
func Mode(ds *Dataset, col Column) string {
	counts := make(map[string]int)
	var order []string
	for _, r := range ds.Recipes {
		v := r.Text(col)
		if v == "" {
			continue
		}
		if _, seen := counts[v]; !seen {
			order = append(order, v)
		}
		counts[v]++
	}

	best := ""
	bestCount := 0
	for _, v := range order {
		if counts[v] > bestCount {
			best = v
			bestCount = counts[v]
		}
	}
	return best
}
