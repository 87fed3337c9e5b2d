// Package entries reads journal entries from JSON or YAML files for the CLI
// and HTTP boundaries.
package entries

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/alexanderramin/reflekt/internal/domain"
)

// ErrInvalidEntry wraps every validation failure.
var ErrInvalidEntry = errors.New("invalid entry")

// Format selects the decoder.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// EntryImport is one entry as written in a file. Timestamps are RFC 3339 or
// a bare date.
type EntryImport struct {
	ID        string       `json:"id" yaml:"id"`
	Title     string       `json:"title" yaml:"title"`
	Content   string       `json:"content" yaml:"content"`
	CreatedAt string       `json:"created_at" yaml:"created_at"`
	UpdatedAt string       `json:"updated_at" yaml:"updated_at"`
	Mood      *domain.Mood `json:"mood" yaml:"mood"`
}

// File is the document shape: either {"entries": [...]} or a bare list.
type File struct {
	Entries []EntryImport `json:"entries" yaml:"entries"`
}

// FormatFor picks the decoder from a file extension, sniffing the content
// when the extension says nothing.
func FormatFor(path string, data []byte) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && (trimmed[0] == '{' || trimmed[0] == '[') {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes raw entries without validating them.
func Parse(data []byte, format Format) ([]EntryImport, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var list []EntryImport
	var file File
	switch format {
	case FormatJSON:
		if trimmed[0] == '[' {
			if err := json.Unmarshal(trimmed, &list); err != nil {
				return nil, fmt.Errorf("parsing entries: %w", err)
			}
			return list, nil
		}
		if err := json.Unmarshal(trimmed, &file); err != nil {
			return nil, fmt.Errorf("parsing entries: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(trimmed, &list); err == nil {
			return list, nil
		}
		if err := yaml.Unmarshal(trimmed, &file); err != nil {
			return nil, fmt.Errorf("parsing entries: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported entries format %q", format)
	}
	return file.Entries, nil
}

// Load reads, validates and converts an entries file. A path of "-" reads r.
func Load(path string, r io.Reader) ([]domain.JournalEntry, error) {
	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(r)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading entries: %w", err)
	}
	raw, err := Parse(data, FormatFor(path, data))
	if err != nil {
		return nil, err
	}
	return Convert(raw)
}
