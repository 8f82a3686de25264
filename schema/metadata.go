package schema

import (
	"math"
	"strconv"
)

// Metadata keys interpreted by genviz.
const (
	MetaTitle = "title"
	MetaSort  = "sort"
	MetaUnits = "units"
	MetaTopN  = "top_n_lemmas"
)

// String returns the string value stored at key, or "".
func (m Metadata) String(key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// Title returns the chart title.
func (m Metadata) Title() string { return m.String(MetaTitle) }

// Units returns the value units, e.g. "%".
func (m Metadata) Units() string { return m.String(MetaUnits) }

// Sort returns the raw sort mode string.
func (m Metadata) Sort() string { return m.String(MetaSort) }

// TopN returns the window size declared by the export, or 0 when absent or invalid.
// Values beyond math.MaxInt32 are clamped; the window truncates to the row count anyway.
func (m Metadata) TopN() int {
	switch v := m[MetaTopN].(type) {
	case int:
		return max(v, 0)
	case int64:
		return max(int(v), 0)
	case float64:
		if math.IsNaN(v) || v < 0 {
			return 0
		}
		if v >= math.MaxInt32 {
			return math.MaxInt32
		}
		return int(v)
	case string:
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return 0
		}
		return n
	}
	return 0
}

// Clone returns a shallow copy of the metadata.
func (m Metadata) Clone() Metadata {
	if m == nil {
		return nil
	}
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
