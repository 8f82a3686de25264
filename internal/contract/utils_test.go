package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/genviz/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetColorBin(t *testing.T) {
	tests := []struct {
		name  string
		value float64
		label string
	}{
		{"high", 45, "40%+"},
		{"elevated", 35, "30-40%"},
		{"moderate", 25, "20-30%"},
		{"low", 12, "10-20%"},
		{"lowest bin", 5, "5-10%"},
		{"below", 2, schema.BinBelow},
		{"missing", schema.Sentinel, schema.BinNoData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Should contain the plain label
			assert.Contains(t, GetColorBin(tt.value), tt.label)
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		// Verify file was created
		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestIsRemoteSource(t *testing.T) {
	assert.True(t, IsRemoteSource("https://example.org/data.json"))
	assert.True(t, IsRemoteSource("HTTP://example.org/data.json"))
	assert.False(t, IsRemoteSource("data/dialect.json"))
	assert.False(t, IsRemoteSource("file.json"))
}

func TestSourceName(t *testing.T) {
	tests := []struct {
		source   string
		expected string
	}{
		{"data/dialect_usage.json", "dialect_usage"},
		{"https://example.org/exports/lemmas.json?v=2", "lemmas"},
		{"https://example.org/exports/", "exports"},
		{"plain", "plain"},
		{"", "chart"},
	}

	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			assert.Equal(t, tt.expected, SourceName(tt.source))
		})
	}
}

func TestGetDBFilePaths(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	cachePath := GetCacheDBFilePath()
	assert.Contains(t, cachePath, ".genviz_cache.db")
	assert.True(t, strings.HasPrefix(cachePath, homeDir), "path %s should start with home dir %s", cachePath, homeDir)

	runPath := GetRunDBFilePath()
	assert.Contains(t, runPath, ".genviz_runs.db")
	assert.NotEqual(t, cachePath, runPath)
}

func TestTruncateLabel(t *testing.T) {
	assert.Equal(t, "short", TruncateLabel("short", 10))
	assert.Equal(t, "Trentin...", TruncateLabel("Trentino-Alto Adige/Südtirol", 10))
	assert.Equal(t, "abcdef", TruncateLabel("abcdef", 3))
	assert.Equal(t, "Südt...", TruncateLabel("Südtirol!", 7))
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v)
	}
	_, err := ParseBoolString("maybe")
	assert.Error(t, err)
}
