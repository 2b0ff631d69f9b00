package curvefile

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies a document encoding.
type Format int

const (
	FormatJSON Format = iota
	FormatYAML
)

func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "json"
}

// FormatOf picks the codec from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownFormat, path)
}

// Parse decodes data in the given format.
func Parse(data []byte, f Format) (*Document, error) {
	if f == FormatYAML {
		return ParseYAML(data)
	}
	return ParseJSON(data)
}

// Encode encodes d in the given format.
func Encode(d *Document, f Format) ([]byte, error) {
	if f == FormatYAML {
		return ToYAML(d)
	}
	return ToJSON(d, true)
}

// Load reads a document, choosing the codec by extension.
func Load(path string) (*Document, error) {
	f, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	d, err := Parse(data, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// Save writes a document, choosing the codec by extension. The file is
// written to a temporary name first and renamed into place.
func Save(path string, d *Document) error {
	f, err := FormatOf(path)
	if err != nil {
		return err
	}
	data, err := Encode(d, f)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
