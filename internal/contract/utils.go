package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/genviz/schema"
)

// Color variables for console output, highest bin first.
var (
	HighColor     = color.New(color.FgRed, color.Bold)     // HighColor marks 40%+ usage.
	ElevatedColor = color.New(color.FgMagenta, color.Bold) // ElevatedColor marks 30-40% usage.
	ModerateColor = color.New(color.FgYellow)              // ModerateColor marks 20-30% usage.
	LowColor      = color.New(color.FgCyan)                // LowColor marks 5-20% usage.
	FaintColor    = color.New(color.Faint)                 // FaintColor marks values below 5% and missing data.
)

// GetColorBin returns the dialect bin for a region value, colored for console output.
func GetColorBin(value float64) string {
	text := schema.BinFor(value)

	switch text {
	case schema.DialectBins[0].Label:
		return HighColor.Sprint(text)
	case schema.DialectBins[1].Label:
		return ElevatedColor.Sprint(text)
	case schema.DialectBins[2].Label:
		return ModerateColor.Sprint(text)
	case schema.DialectBins[3].Label, schema.DialectBins[4].Label:
		return LowColor.Sprint(text)
	default: // "<5%" and "no data"
		return FaintColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// IsRemoteSource reports whether a source refers to an HTTP(S) location.
func IsRemoteSource(source string) bool {
	lower := strings.ToLower(source)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// SourceName derives a short chart name from a source path or URL.
func SourceName(source string) string {
	trimmed := strings.TrimRight(source, "/")
	if i := strings.IndexAny(trimmed, "?#"); i >= 0 {
		trimmed = trimmed[:i]
	}
	base := filepath.Base(filepath.FromSlash(trimmed))
	if ext := filepath.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "." || base == string(filepath.Separator) || base == "" {
		return "chart"
	}
	return base
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for source cache storage.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".genviz_cache.db"
	}
	return filepath.Join(homeDir, ".genviz_cache.db")
}

// GetRunDBFilePath returns the path to the SQLite DB file for run history.
func GetRunDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".genviz_runs.db"
	}
	return filepath.Join(homeDir, ".genviz_runs.db")
}

// TruncateLabel truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 so the ellipsis leaves room for content.
func TruncateLabel(label string, maxWidth int) string {
	runes := []rune(label)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return label
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
