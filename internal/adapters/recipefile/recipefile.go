package recipefile

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/andrescamacho/focusplanner/internal/domain/recipe"
)

// Format is a recipe file encoding
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatFromPath picks the format from the file extension
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported recipe file extension %q (want .json, .yaml or .yml)", filepath.Ext(path))
	}
}

// document is the wrapped layout: {"recipes": [...]}
type document struct {
	Recipes []recipe.Record `json:"recipes" yaml:"recipes"`
}

// ReadFile reads records from a .json, .yaml or .yml file
func ReadFile(path string) ([]recipe.Record, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open recipe file: %w", err)
	}
	defer f.Close()

	records, err := Decode(f, format)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return records, nil
}

// WriteFile writes records to path in the format its extension names
func WriteFile(path string, records []recipe.Record) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := Encode(&buf, records, format); err != nil {
		return err
	}

	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write recipe file: %w", err)
	}
	return nil
}

// Decode accepts three layouts: a bare list of records, {"recipes": [...]},
// or a map keyed by recipe name where the key fills a missing name.
func Decode(r io.Reader, format Format) ([]recipe.Record, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read recipes: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	switch format {
	case FormatJSON:
		return decodeJSON(data)
	case FormatYAML:
		return decodeYAML(data)
	default:
		return nil, fmt.Errorf("unsupported recipe format: %s", format)
	}
}

func decodeJSON(data []byte) ([]recipe.Record, error) {
	trimmed := bytes.TrimSpace(data)
	if trimmed[0] == '[' {
		var records []recipe.Record
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("invalid recipe list: %w", err)
		}
		return records, nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return nil, fmt.Errorf("invalid recipe document: %w", err)
	}
	if raw, ok := probe["recipes"]; ok && len(probe) == 1 {
		var records []recipe.Record
		if err := json.Unmarshal(raw, &records); err != nil {
			return nil, fmt.Errorf("invalid recipes list: %w", err)
		}
		return records, nil
	}

	keyed := make(map[string]recipe.Record, len(probe))
	for name, raw := range probe {
		var rec recipe.Record
		if err := json.Unmarshal(raw, &rec); err != nil {
			return nil, fmt.Errorf("invalid recipe %q: %w", name, err)
		}
		keyed[name] = rec
	}
	return fromKeyed(keyed), nil
}

func decodeYAML(data []byte) ([]recipe.Record, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("invalid recipe document: %w", err)
	}
	if len(root.Content) == 0 {
		return nil, nil
	}
	top := root.Content[0]

	switch top.Kind {
	case yaml.SequenceNode:
		var records []recipe.Record
		if err := top.Decode(&records); err != nil {
			return nil, fmt.Errorf("invalid recipe list: %w", err)
		}
		return records, nil
	case yaml.MappingNode:
		if len(top.Content) == 2 && top.Content[0].Value == "recipes" {
			var doc document
			if err := top.Decode(&doc); err != nil {
				return nil, fmt.Errorf("invalid recipes list: %w", err)
			}
			return doc.Recipes, nil
		}
		var keyed map[string]recipe.Record
		if err := top.Decode(&keyed); err != nil {
			return nil, fmt.Errorf("invalid recipe map: %w", err)
		}
		return fromKeyed(keyed), nil
	default:
		return nil, fmt.Errorf("recipe document must be a list or a map")
	}
}

func fromKeyed(keyed map[string]recipe.Record) []recipe.Record {
	records := make([]recipe.Record, 0, len(keyed))
	for name, rec := range keyed {
		if strings.TrimSpace(rec.Name) == "" {
			rec.Name = name
		}
		records = append(records, rec)
	}
	recipe.SortRecords(records)
	return records
}

// Encode writes records sorted by name in the wrapped layout
func Encode(w io.Writer, records []recipe.Record, format Format) error {
	sorted := make([]recipe.Record, len(records))
	copy(sorted, records)
	recipe.SortRecords(sorted)
	doc := document{Recipes: sorted}

	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode recipes: %w", err)
		}
		return nil
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode recipes: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported recipe format: %s", format)
	}
}
