// Package obslog appends probe observation rows to an external,
// append-only CSV log for offline model training. The health monitor
// is the only producer; consumption (training, dashboards) is out of
// scope for this engine.
package obslog

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"
)

// Header is the exact column order of the observation log.
var Header = []string{"timestamp", "interface_name", "latency", "successes", "failures", "active_conns"}

// Row is one observation. The counters in a Row are the state *before*
// the probe that produced Latency — pre-probe counters paired with the
// freshly measured latency, matching the training pipeline's
// shifted-target semantics.
type Row struct {
	Timestamp   time.Time
	Interface   string
	Latency     float64
	Successes   int64
	Failures    int64
	ActiveConns int64
}

// Writer appends observation rows. Implementations must be safe for
// sequential use by a single health monitor goroutine; concurrent use
// from multiple goroutines is not required since probes run
// sequentially within one round.
type Writer interface {
	Write(row Row) error
	Close() error
}

// NopWriter discards every row. Used when observation logging is
// disabled in configuration.
type NopWriter struct{}

// Write implements Writer.
func (NopWriter) Write(Row) error { return nil }

// Close implements Writer.
func (NopWriter) Close() error { return nil }

// CSVWriter appends rows to a file on disk, writing the header once if
// the file is new or empty.
type CSVWriter struct {
	f *os.File
	w *csv.Writer
}

// NewCSVWriter opens (or creates) path for appending and writes the
// header if the file was empty.
func NewCSVWriter(path string) (*CSVWriter, error) {
	info, statErr := os.Stat(path)
	needsHeader := statErr != nil || info.Size() == 0

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrapf(err, "open observation log %s", path)
	}

	w := csv.NewWriter(f)
	if needsHeader {
		if err := w.Write(Header); err != nil {
			f.Close()
			return nil, errors.Wrap(err, "write observation log header")
		}
		w.Flush()
	}
	return &CSVWriter{f: f, w: w}, nil
}

// Write appends row and flushes immediately so readers (offline training,
// tail -f) see it without waiting for a buffer to fill.
func (c *CSVWriter) Write(row Row) error {
	record := []string{
		strconv.FormatInt(row.Timestamp.Unix(), 10),
		row.Interface,
		strconv.FormatFloat(row.Latency, 'f', 2, 64),
		strconv.FormatInt(row.Successes, 10),
		strconv.FormatInt(row.Failures, 10),
		strconv.FormatInt(row.ActiveConns, 10),
	}
	if err := c.w.Write(record); err != nil {
		return errors.Wrap(err, "write observation row")
	}
	c.w.Flush()
	return c.w.Error()
}

// Close flushes and closes the underlying file.
func (c *CSVWriter) Close() error {
	c.w.Flush()
	if err := c.w.Error(); err != nil {
		c.f.Close()
		return err
	}
	return c.f.Close()
}
