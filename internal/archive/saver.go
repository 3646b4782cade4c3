package archive

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/parquet-go/parquet-go"
)

// BarRow is the serialized form of one trade bar.
type BarRow struct {
	Symbol string  `json:"symbol" parquet:"symbol"`
	Time   int64   `json:"t" parquet:"t"`
	Open   float64 `json:"o" parquet:"o"`
	High   float64 `json:"h" parquet:"h"`
	Low    float64 `json:"l" parquet:"l"`
	Close  float64 `json:"c" parquet:"c"`
	Volume int64   `json:"v" parquet:"v"`
}

// OpenInterestRow is the serialized form of one open-interest point.
type OpenInterestRow struct {
	Symbol string `json:"symbol" parquet:"symbol"`
	Time   int64  `json:"t" parquet:"t"`
	Value  int64  `json:"oi" parquet:"oi"`
}

// Saver encodes one batch into a file. Implementations are stateless.
type Saver interface {
	SaveBars(rows []BarRow, path string) error
	SaveOpenInterest(rows []OpenInterestRow, path string) error
	Extension() string
}

// NewSaver returns the saver for a format name, or nil when the format
// is not supported.
func NewSaver(format string) Saver {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "json":
		return JSONSaver{}
	case "parquet":
		return ParquetSaver{}
	default:
		return nil
	}
}

// JSONSaver writes batches as JSON arrays.
type JSONSaver struct{}

func (JSONSaver) Extension() string { return "json" }

func (JSONSaver) SaveBars(rows []BarRow, path string) error {
	return writeJSON(path, rows)
}

func (JSONSaver) SaveOpenInterest(rows []OpenInterestRow, path string) error {
	return writeJSON(path, rows)
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// ParquetSaver writes batches as Parquet files.
type ParquetSaver struct{}

func (ParquetSaver) Extension() string { return "parquet" }

func (ParquetSaver) SaveBars(rows []BarRow, path string) error {
	return parquet.WriteFile(path, rows)
}

func (ParquetSaver) SaveOpenInterest(rows []OpenInterestRow, path string) error {
	return parquet.WriteFile(path, rows)
}
