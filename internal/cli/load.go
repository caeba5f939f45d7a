package cli

import (
	"bytes"
	"fmt"

	"github.com/nutrilens/nutrilens/internal/analyzer"
	"github.com/nutrilens/nutrilens/internal/dataset"
	"github.com/nutrilens/nutrilens/internal/execcontext"
	"github.com/nutrilens/nutrilens/internal/storage"
)

// loadAnalyzer resolves a dataset source, fetches it and returns an analyzer
// over the cleaned rows.
func loadAnalyzer(runCtx execcontext.RunContext, source string) (*analyzer.Analyzer, error) {
	provider, err := storage.ParseSource(source)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve dataset source: %w", err)
	}

	raw, err := provider.Fetch(runCtx.Context)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch dataset from %s: %w", provider, err)
	}

	ds, err := dataset.Load(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	return analyzer.New(ds), nil
}
