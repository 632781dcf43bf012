package main

import (
	"bytes"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/goccy/go-yaml"
	"github.com/invopop/jsonschema"
)

// Document is the input of the scan command. A bare array is accepted as a
// document holding only values.
type Document struct {
	Values    []any  `json:"values" yaml:"values" jsonschema:"required,description=Elements to scan in index order"`
	Predicate string `json:"predicate,omitempty" yaml:"predicate,omitempty" jsonschema:"description=Registered predicate name with an optional ':argument' suffix,default=positive"`
	Offset    *int   `json:"offset,omitempty" yaml:"offset,omitempty" jsonschema:"description=First visited index,minimum=0"`
	Stride    *int   `json:"stride,omitempty" yaml:"stride,omitempty" jsonschema:"description=Distance between visited indices; negative walks backward"`
}

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

// formatFor picks the document format from an explicit flag value or from
// the file extension.
func formatFor(flag, path string) (string, error) {
	switch strings.ToLower(flag) {
	case formatJSON, formatYAML:
		return strings.ToLower(flag), nil
	case "", "auto":
	default:
		return "", fmt.Errorf("unknown format %q", flag)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return formatYAML, nil
	default:
		return formatJSON, nil
	}
}

func decodeDocument(r io.Reader, format string) (Document, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return Document{}, err
	}

	switch format {
	case formatYAML:
		return decodeYAML(b)
	default:
		return decodeJSON(b)
	}
}

func decodeJSON(b []byte) (Document, error) {
	trimmed := bytes.TrimSpace(b)
	if len(trimmed) == 0 {
		return Document{}, fmt.Errorf("empty document")
	}

	var doc Document
	if trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &doc.Values); err != nil {
			return Document{}, fmt.Errorf("decode values: %w", err)
		}
		return doc, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}

	return doc, nil
}

func decodeYAML(b []byte) (Document, error) {
	var raw any
	if err := yaml.Unmarshal(b, &raw); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}

	var doc Document
	switch v := raw.(type) {
	case nil:
		return Document{}, fmt.Errorf("empty document")
	case []any:
		doc.Values = v
		return doc, nil
	}

	if err := yaml.UnmarshalWithOptions(b, &doc, yaml.Strict()); err != nil {
		return Document{}, fmt.Errorf("decode document: %w", err)
	}

	return doc, nil
}

func documentSchema() ([]byte, error) {
	r := jsonschema.Reflector{
		ExpandedStruct: true,
	}

	schema := r.Reflect(&Document{})
	schema.Title = "cunone scan document"

	return json.MarshalIndent(schema, "", "  ")
}
