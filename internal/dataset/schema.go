package dataset

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/Swoorup/the-sorted-array/pkg/sortedarray"
)

//go:embed schema/*.schema.json
var schemaFS embed.FS

// Kind selects the schema a file is validated against.
type Kind string

const (
	// KindDocument is a sorted record document.
	KindDocument Kind = "document"
	// KindScript is a replay script.
	KindScript Kind = "script"
)

// Violation is one schema error.
type Violation struct {
	Field       string `json:"field"       yaml:"field"`
	Description string `json:"description" yaml:"description"`
}

// String formats the violation as "field: description".
func (v Violation) String() string {
	return v.Field + ": " + v.Description
}

// Validate checks the file at path against the schema for kind. It returns
// the violations found; an error means the file or schema could not be read.
func Validate(path string, kind Kind) ([]Violation, error) {
	data, format, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	return validateBytes(data, format, kind)
}

func validateBytes(data []byte, format Format, kind Kind) ([]Violation, error) {
	schemaBytes, err := schemaFS.ReadFile("schema/" + string(kind) + ".schema.json")
	if err != nil {
		return nil, fmt.Errorf("read %s schema: %w", kind, err)
	}

	input, err := decodeGeneric(data, format)
	if err != nil {
		return nil, err
	}

	result, err := gojsonschema.Validate(gojsonschema.NewBytesLoader(schemaBytes), gojsonschema.NewGoLoader(input))
	if err != nil {
		return nil, fmt.Errorf("validate %s: %w", kind, err)
	}

	if result.Valid() {
		return nil, nil
	}

	violations := make([]Violation, 0, len(result.Errors()))
	for _, verr := range result.Errors() {
		violations = append(violations, Violation{Field: verr.Field(), Description: verr.Description()})
	}

	return violations, nil
}

// decodeGeneric decodes into plain maps and slices for the schema loader.
func decodeGeneric(data []byte, format Format) (any, error) {
	var input any

	switch format {
	case FormatYAML:
		err := yaml.Unmarshal(data, &input)
		if err != nil {
			return nil, fmt.Errorf("decode yaml: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()

		err := dec.Decode(&input)
		if err != nil {
			return nil, fmt.Errorf("decode json: %w", err)
		}
	}

	return input, nil
}

func violationsError(violations []Violation) error {
	parts := make([]string, len(violations))
	for i, v := range violations {
		parts[i] = v.String()
	}

	return fmt.Errorf("%w: %s", ErrSchema, strings.Join(parts, "; "))
}

// ValidateDocument loads a document and fails on any schema violation or
// ordering fault. fallback applies when the document declares no order.
func ValidateDocument(path string, fallback sortedarray.Order) (*Document, error) {
	violations, err := Validate(path, KindDocument)
	if err != nil {
		return nil, err
	}

	if len(violations) > 0 {
		return nil, fmt.Errorf("%s: %w", path, violationsError(violations))
	}

	doc, err := Load(path)
	if err != nil {
		return nil, err
	}

	order, err := doc.SortOrder(fallback)
	if err != nil {
		return nil, err
	}

	sortErr := CheckSorted(doc.Items, order)
	if sortErr != nil {
		return nil, fmt.Errorf("%s: %w", path, sortErr)
	}

	return doc, nil
}
