package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a document encoding chosen by file extension.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor returns the encoding for path. Unknown extensions use JSON.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	case ".toml":
		return FormatTOML
	default:
		return FormatJSON
	}
}

// Marshal encodes v in format f.
func Marshal(f Format, v any) ([]byte, error) {
	switch f {
	case FormatYAML:
		return yaml.Marshal(v)
	case FormatTOML:
		return toml.Marshal(v)
	default:
		return json.MarshalIndent(v, "", "  ")
	}
}

// Unmarshal decodes data in format f into v.
func Unmarshal(f Format, data []byte, v any) error {
	switch f {
	case FormatYAML:
		return yaml.Unmarshal(data, v)
	case FormatTOML:
		return toml.Unmarshal(data, v)
	default:
		return json.Unmarshal(data, v)
	}
}

// WriteFile encodes v according to the extension of path and writes it,
// creating any missing parent directories.
func WriteFile(path string, v any) error {
	data, err := Marshal(FormatFor(path), v)
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", filepath.Base(path), err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", filepath.Base(path), err)
	}
	return nil
}

// ReadFile decodes the file at path into v according to its extension. The
// error wraps os.ErrNotExist when the file is missing.
func ReadFile(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	if err := Unmarshal(FormatFor(path), data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	return nil
}
