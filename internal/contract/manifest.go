package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/huangsam/genviz/schema"
	"github.com/ilyakaznacheev/cleanenv"
)

func init() {
	if err := validate.RegisterValidation("sortmode", validateSortMode); err != nil {
		panic(err)
	}
}

// validateSortMode accepts every spelling ParseSortAttribute understands.
func validateSortMode(fl validator.FieldLevel) bool {
	_, _, err := schema.ParseSortAttribute(fl.Field().String())
	return err == nil
}

// LoadManifest reads a dashboard manifest from a YAML or JSON file.
// Environment variables override the file (see the env tags on schema.Manifest).
// Relative local sources are resolved against the manifest's directory.
func LoadManifest(path string) (*schema.Manifest, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("manifest: file %s: %w", path, err)
	}

	var m schema.Manifest
	if err := cleanenv.ReadConfig(path, &m); err != nil {
		return nil, fmt.Errorf("manifest: read %s: %w", path, err)
	}
	if err := validate.Struct(&m); err != nil {
		return nil, fmt.Errorf("manifest: validate: %w", err)
	}

	base := filepath.Dir(path)
	for i := range m.Charts {
		spec := &m.Charts[i]
		if spec.Kind == "" {
			spec.Kind = schema.BarChart
		}
		spec.Source = resolveSource(base, spec.Source)
		if spec.Regions != "" {
			spec.Regions = resolveSource(base, spec.Regions)
		}
	}
	return &m, nil
}

func resolveSource(base, source string) string {
	if IsRemoteSource(source) || filepath.IsAbs(source) {
		return source
	}
	return filepath.Join(base, source)
}
