package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"

	"github.com/huangsam/genviz/internal/contract"
)

// writeWithFile renders into memory first, then copies the result to
// outputFile or to stdout when outputFile is empty. A failed render leaves
// no partial file behind.
func writeWithFile(outputFile string, render func(io.Writer) error, format string) error {
	var buf bytes.Buffer
	if err := render(&buf); err != nil {
		return err
	}

	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return fmt.Errorf("open %s output: %w", format, err)
	}
	if file == os.Stdout {
		_, err = buf.WriteTo(file)
		return err
	}

	n, err := buf.WriteTo(file)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("write %s output %s: %w", format, outputFile, err)
	}
	slog.Info("wrote output", "format", format, "path", outputFile, "bytes", n)
	return nil
}

// writeJSON writes indented JSON. HTML escaping is off so titles keep their
// ampersands and angle brackets.
func writeJSON(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(data); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

// writeCSV writes a header and the records, surfacing flush errors.
func writeCSV(w io.Writer, header []string, records [][]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	if err := cw.WriteAll(records); err != nil {
		return fmt.Errorf("csv records: %w", err)
	}
	return nil
}

// valueFormatter renders chart values at a fixed precision. NaN renders
// empty, matching a region without data.
func valueFormatter(precision int) func(float64) string {
	precision = max(precision, 0)
	return func(v float64) string {
		if math.IsNaN(v) {
			return ""
		}
		return fmt.Sprintf("%.*f", precision, v)
	}
}
