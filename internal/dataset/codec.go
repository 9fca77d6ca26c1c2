package dataset

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/pierrec/lz4/v4"
	"gopkg.in/yaml.v3"
)

// Format is a file encoding.
type Format int

const (
	// FormatJSON is indented JSON.
	FormatJSON Format = iota
	// FormatYAML is YAML with two-space indentation.
	FormatYAML
)

const (
	extLZ4  = ".lz4"
	stdPath = "-"

	filePerm = 0o644
	indent   = 2
)

// String returns the format name.
func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}

	return "json"
}

// DetectFormat picks the encoding from the file extension. A trailing .lz4
// marks the file as an lz4 frame around the inner format. "-" is JSON.
func DetectFormat(path string) (Format, bool, error) {
	if path == stdPath {
		return FormatJSON, false, nil
	}

	name := strings.ToLower(path)

	compressed := strings.HasSuffix(name, extLZ4)
	if compressed {
		name = strings.TrimSuffix(name, extLZ4)
	}

	switch filepath.Ext(name) {
	case ".json":
		return FormatJSON, compressed, nil
	case ".yaml", ".yml":
		return FormatYAML, compressed, nil
	default:
		return FormatJSON, false, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Decode reads v from r in format f.
func Decode(r io.Reader, f Format, v any) error {
	var err error

	switch f {
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(v)
	case FormatJSON:
		err = json.NewDecoder(r).Decode(v)
	}

	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s: %w", f, err)
	}

	return nil
}

// Encode writes v to w in format f.
func Encode(w io.Writer, f Format, v any) error {
	switch f {
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(indent)

		encodeErr := enc.Encode(v)
		if encodeErr != nil {
			return fmt.Errorf("encode yaml: %w", encodeErr)
		}

		closeErr := enc.Close()
		if closeErr != nil {
			return fmt.Errorf("encode yaml: %w", closeErr)
		}
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", strings.Repeat(" ", indent))

		encodeErr := enc.Encode(v)
		if encodeErr != nil {
			return fmt.Errorf("encode json: %w", encodeErr)
		}
	}

	return nil
}

// ReadFile returns the decompressed bytes of path and their format.
// "-" reads standard input.
func ReadFile(path string) ([]byte, Format, error) {
	format, compressed, err := DetectFormat(path)
	if err != nil {
		return nil, format, err
	}

	var src io.Reader = os.Stdin

	if path != stdPath {
		f, openErr := os.Open(path)
		if openErr != nil {
			return nil, format, fmt.Errorf("open %s: %w", path, openErr)
		}
		defer f.Close()

		src = f
	}

	if compressed {
		src = lz4.NewReader(src)
	}

	data, readErr := io.ReadAll(src)
	if readErr != nil {
		return nil, format, fmt.Errorf("read %s: %w", path, readErr)
	}

	return data, format, nil
}

// WriteFile encodes v to path, compressing when the name ends in .lz4.
// "-" writes standard output.
func WriteFile(path string, v any) error {
	format, compressed, err := DetectFormat(path)
	if err != nil {
		return err
	}

	if path == stdPath {
		return Encode(os.Stdout, format, v)
	}

	var buf bytes.Buffer

	encodeErr := Encode(&buf, format, v)
	if encodeErr != nil {
		return encodeErr
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePerm)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}

	var dst io.Writer = f

	var zw *lz4.Writer

	if compressed {
		zw = lz4.NewWriter(f)
		dst = zw
	}

	_, writeErr := buf.WriteTo(dst)

	if zw != nil && writeErr == nil {
		writeErr = zw.Close()
	}

	closeErr := f.Close()

	if joined := errors.Join(writeErr, closeErr); joined != nil {
		return fmt.Errorf("write %s: %w", path, joined)
	}

	return nil
}

// Load reads a document. The content is decoded only; use Validate and
// CheckSorted to vet it.
func Load(path string) (*Document, error) {
	data, format, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	var doc Document

	decodeErr := Decode(bytes.NewReader(data), format, &doc)
	if decodeErr != nil {
		return nil, fmt.Errorf("load %s: %w", path, decodeErr)
	}

	return &doc, nil
}

// Save writes a document.
func Save(path string, doc *Document) error {
	if doc.Items == nil {
		doc.Items = []Record{}
	}

	return WriteFile(path, doc)
}

// LoadScript reads, schema-validates and checks a replay script.
func LoadScript(path string) (*Script, error) {
	data, format, err := ReadFile(path)
	if err != nil {
		return nil, err
	}

	violations, err := validateBytes(data, format, KindScript)
	if err != nil {
		return nil, fmt.Errorf("load script %s: %w", path, err)
	}

	if len(violations) > 0 {
		return nil, fmt.Errorf("load script %s: %w", path, violationsError(violations))
	}

	var script Script

	decodeErr := Decode(bytes.NewReader(data), format, &script)
	if decodeErr != nil {
		return nil, fmt.Errorf("load script %s: %w", path, decodeErr)
	}

	checkErr := CheckScript(&script)
	if checkErr != nil {
		return nil, fmt.Errorf("load script %s: %w", path, checkErr)
	}

	return &script, nil
}
