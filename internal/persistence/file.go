// Package persistence writes and reads run artifacts, such as evaluation reports, on disk.
// The encoding is chosen by file extension: .yaml and .yml use YAML, anything else JSON.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format is an on-disk encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf returns the encoding used for filePath.
func FormatOf(filePath string) Format {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Save encodes object and writes it to filePath, creating missing directories.
// The file is written to a temporary sibling first and renamed into place.
func Save(filePath string, object interface{}) (err error) {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(filePath)+".*")
	if err != nil {
		return fmt.Errorf("failed to create file in %s: %w", dir, err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := Encode(tmp, FormatOf(filePath), object); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to encode to file %s: %w", filePath, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), filePath); err != nil {
		return fmt.Errorf("failed to move file into %s: %w", filePath, err)
	}
	return nil
}

// Load decodes filePath into objectPointer.
// If the file does not exist it returns an error matching os.ErrNotExist.
func Load(filePath string, objectPointer interface{}) error {
	file, err := os.Open(filePath) // #nosec G304 -- filePath is controlled by application, not user input
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return err
		}
		return fmt.Errorf("failed to open file %s: %w", filePath, err)
	}
	defer func() { _ = file.Close() }()

	if err := Decode(file, FormatOf(filePath), objectPointer); err != nil {
		return fmt.Errorf("failed to decode file %s: %w", filePath, err)
	}
	return nil
}

// Encode writes object to w in the given format.
func Encode(w io.Writer, format Format, object interface{}) error {
	switch format {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(object); err != nil {
			return err
		}
		return enc.Close()
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(object)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}

// Decode reads an object in the given format from r into objectPointer.
func Decode(r io.Reader, format Format, objectPointer interface{}) error {
	switch format {
	case FormatYAML:
		return yaml.NewDecoder(r).Decode(objectPointer)
	case FormatJSON:
		return json.NewDecoder(r).Decode(objectPointer)
	default:
		return fmt.Errorf("unknown format %q", format)
	}
}
