package archive

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/quantlayer/ivol-data/internal/model"
)

// Writer lays fetched batches out on disk. Safe for concurrent use: each
// batch maps to one entry path, and entry existence is the idempotency
// check.
type Writer struct {
	dir    string
	saver  Saver
	logger *slog.Logger
}

// NewWriter creates a Writer rooted at dir using the given format
// ("json" or "parquet").
func NewWriter(dir, format string, logger *slog.Logger) (*Writer, error) {
	if dir == "" {
		return nil, fmt.Errorf("%w: archive directory not set", model.ErrInvalidArgument)
	}
	saver := NewSaver(format)
	if saver == nil {
		return nil, fmt.Errorf("%w: archive format %q not supported", model.ErrInvalidArgument, format)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Writer{dir: dir, saver: saver, logger: logger}, nil
}

// SaveTradeBars writes one trade-bar batch. An already-present entry is
// left untouched.
func (w *Writer) SaveTradeBars(sym *model.Symbol, res model.Resolution, bars []model.TradeBar) error {
	if len(bars) == 0 {
		return nil
	}

	path, skip, err := w.entryPath(sym, res, "trade",
		bars[0].Time.Unix(), bars[len(bars)-1].Time.Unix())
	if err != nil || skip {
		return err
	}

	rows := make([]BarRow, 0, len(bars))
	for _, b := range bars {
		rows = append(rows, BarRow{
			Symbol: b.Symbol.String(),
			Time:   b.Time.Unix(),
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		})
	}
	return w.saver.SaveBars(rows, path)
}

// SaveOpenInterest writes one open-interest batch with the same entry
// semantics as SaveTradeBars.
func (w *Writer) SaveOpenInterest(sym *model.Symbol, res model.Resolution, points []model.OpenInterest) error {
	if len(points) == 0 {
		return nil
	}

	path, skip, err := w.entryPath(sym, res, "openinterest",
		points[0].Time.Unix(), points[len(points)-1].Time.Unix())
	if err != nil || skip {
		return err
	}

	rows := make([]OpenInterestRow, 0, len(points))
	for _, p := range points {
		rows = append(rows, OpenInterestRow{
			Symbol: p.Symbol.String(),
			Time:   p.Time.Unix(),
			Value:  p.Value,
		})
	}
	return w.saver.SaveOpenInterest(rows, path)
}

// entryPath builds the batch entry path, creating parent directories and
// reporting skip=true when the entry already exists.
func (w *Writer) entryPath(sym *model.Symbol, res model.Resolution, tick string, first, last int64) (string, bool, error) {
	entryDir := filepath.Join(w.dir,
		sym.SecurityType.String(),
		sym.Market,
		res.String(),
		entryName(sym),
	)
	if err := os.MkdirAll(entryDir, 0o755); err != nil {
		return "", false, fmt.Errorf("create archive dir: %w", err)
	}

	name := fmt.Sprintf("%s_%d_%d.%s", tick, first, last, w.saver.Extension())
	path := filepath.Join(entryDir, name)

	if _, err := os.Stat(path); err == nil {
		w.logger.Debug("archive entry exists, skipping", "path", path)
		return path, true, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return "", false, fmt.Errorf("stat archive entry: %w", err)
	}
	return path, false, nil
}

// entryName renders a symbol as a filesystem-safe directory name.
func entryName(sym *model.Symbol) string {
	if !sym.SecurityType.IsOption() {
		return strings.ToLower(sym.Ticker)
	}
	return strings.ToLower(fmt.Sprintf("%s_%s_%s_%.0f",
		sym.Ticker,
		sym.Expiry.Format("20060102"),
		sym.Right.Letter(),
		sym.Strike*1000,
	))
}
