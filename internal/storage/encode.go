package storage

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// EncodeResult serializes a derived result for persistence and returns the
// bytes together with their content type. JSON accepts any result; CSV only
// accepts list-shaped results, one row per element.
func EncodeResult(result any, format string) ([]byte, string, error) {
	switch strings.ToLower(format) {
	case "json":
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode result: %w", err)
		}
		return data, "application/json", nil
	case "csv":
		data, err := encodeCSV(result)
		if err != nil {
			return nil, "", err
		}
		return data, "text/csv", nil
	}
	return nil, "", fmt.Errorf("unsupported format %q, expected json or csv", format)
}

func encodeCSV(result any) ([]byte, error) {
	// Round-trip through JSON so any list of structs or maps flattens to
	// rows keyed by their serialized field names.
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode result: %w", err)
	}

	var rows []map[string]any
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("csv format requires a list result")
	}
	if len(rows) == 0 {
		return []byte{}, nil
	}

	headerSet := make(map[string]bool)
	for _, row := range rows {
		for key := range row {
			headerSet[key] = true
		}
	}
	headers := make([]string, 0, len(headerSet))
	for key := range headerSet {
		headers = append(headers, key)
	}
	sort.Strings(headers)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	for _, row := range rows {
		record := make([]string, len(headers))
		for i, key := range headers {
			record[i] = formatCell(row[key])
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write csv: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to write csv: %w", err)
	}
	return buf.Bytes(), nil
}

func formatCell(v any) string {
	switch value := v.(type) {
	case nil:
		return ""
	case string:
		return value
	case float64:
		return strconv.FormatFloat(value, 'f', -1, 64)
	default:
		return fmt.Sprint(value)
	}
}
