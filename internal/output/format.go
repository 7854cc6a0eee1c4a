package output

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/itchyny/gojq"
	"gopkg.in/yaml.v3"
)

// Format represents the output format type.
type Format string

const (
	// FormatText is human-readable output (default).
	FormatText Format = "text"
	// FormatJSON is pretty-printed JSON format.
	FormatJSON Format = "json"
	// FormatNDJSON is newline-delimited JSON format.
	FormatNDJSON Format = "ndjson"
	// FormatTable is tabular format for lists.
	FormatTable Format = "table"
	// FormatYAML is YAML format.
	FormatYAML Format = "yaml"
)

// ParseFormat converts a string to a Format. Empty means FormatText.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatText, "":
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	case FormatNDJSON:
		return FormatNDJSON, nil
	case FormatTable:
		return FormatTable, nil
	case FormatYAML:
		return FormatYAML, nil
	default:
		return "", errors.New("invalid --output format (expected text|json|ndjson|table|yaml)")
	}
}

// IsStructured reports whether the format is machine-readable structured output.
func IsStructured(format Format) bool {
	switch format {
	case FormatJSON, FormatNDJSON, FormatYAML:
		return true
	default:
		return false
	}
}

// Table is a pre-rendered table.
type Table struct {
	Headers []string   `json:"headers,omitempty" yaml:"headers,omitempty"`
	Rows    [][]string `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// TextRenderer is implemented by values with their own text layout.
type TextRenderer interface {
	RenderText(w io.Writer) error
}

// Tabular is implemented by values that know how to flatten into a Table.
type Tabular interface {
	Table() Table
}

// Printer writes values in one output format.
type Printer struct {
	w      io.Writer
	format Format
}

// NewPrinter creates a new Printer that writes to w in the given format.
func NewPrinter(w io.Writer, format Format) *Printer {
	return &Printer{
		w:      w,
		format: format,
	}
}

// Print outputs data in the configured format. A jq query in ctx filters
// JSON and NDJSON output.
func (p *Printer) Print(ctx context.Context, data interface{}) error {
	if data == nil {
		return nil
	}

	data = ApplyAgentOptions(ctx, data)

	switch p.format {
	case FormatJSON:
		return p.printJSON(ctx, data, "  ")
	case FormatNDJSON:
		return p.printNDJSON(ctx, data)
	case FormatYAML:
		return p.printYAML(data)
	case FormatTable:
		return p.printTable(data)
	case FormatText:
		return p.printText(data)
	default:
		return fmt.Errorf("unsupported format: %s", p.format)
	}
}

func (p *Printer) encoder(indent string) *json.Encoder {
	enc := json.NewEncoder(p.w)
	enc.SetEscapeHTML(false)
	if indent != "" {
		enc.SetIndent("", indent)
	}
	return enc
}

func (p *Printer) printJSON(ctx context.Context, data interface{}, indent string) error {
	query := QueryFromContext(ctx)
	if query == "" {
		return p.encoder(indent).Encode(data)
	}
	return p.runQuery(query, data, p.encoder(""))
}

func (p *Printer) printNDJSON(ctx context.Context, data interface{}) error {
	if query := QueryFromContext(ctx); query != "" {
		return p.runQuery(query, data, p.encoder(""))
	}

	enc := p.encoder("")
	v := indirect(reflect.ValueOf(data))
	if v.IsValid() && (v.Kind() == reflect.Slice || v.Kind() == reflect.Array) {
		for i := 0; i < v.Len(); i++ {
			if err := enc.Encode(v.Index(i).Interface()); err != nil {
				return err
			}
		}
		return nil
	}
	return enc.Encode(data)
}

// runQuery evaluates a jq expression against data and encodes every result.
func (p *Printer) runQuery(query string, data interface{}, enc *json.Encoder) error {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return fmt.Errorf("invalid --query: %w", err)
	}

	input, err := toJSONValue(data)
	if err != nil {
		return err
	}

	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			return nil
		}
		if err, isErr := v.(error); isErr {
			return fmt.Errorf("query error: %w", err)
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
}

// toJSONValue converts structs into the map/slice form gojq operates on.
func toJSONValue(data interface{}) (interface{}, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode query input: %w", err)
	}
	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, fmt.Errorf("decode query input: %w", err)
	}
	return v, nil
}

func (p *Printer) printYAML(data interface{}) error {
	enc := yaml.NewEncoder(p.w)
	enc.SetIndent(2)
	defer func() { _ = enc.Close() }()
	return enc.Encode(data)
}

func (p *Printer) printText(data interface{}) error {
	if r, ok := data.(TextRenderer); ok {
		return r.RenderText(p.w)
	}

	v := indirect(reflect.ValueOf(data))
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Map:
		keys := v.MapKeys()
		sort.Slice(keys, func(i, j int) bool {
			return fmt.Sprint(keys[i].Interface()) < fmt.Sprint(keys[j].Interface())
		})
		for _, key := range keys {
			if _, err := fmt.Fprintf(p.w, "%v: %v\n", key.Interface(), v.MapIndex(key).Interface()); err != nil {
				return err
			}
		}
	case reflect.Struct:
		for _, f := range structFields(v.Type()) {
			value := v.Field(f.index)
			if f.omitEmpty && value.IsZero() {
				continue
			}
			if _, err := fmt.Fprintf(p.w, "%s: %v\n", f.name, value.Interface()); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			item := v.Index(i).Interface()
			if r, ok := item.(TextRenderer); ok {
				if err := r.RenderText(p.w); err != nil {
					return err
				}
				continue
			}
			if _, err := fmt.Fprintln(p.w, item); err != nil {
				return err
			}
		}
	default:
		_, err := fmt.Fprintln(p.w, v.Interface())
		return err
	}
	return nil
}

func (p *Printer) printTable(data interface{}) error {
	switch t := data.(type) {
	case Table:
		return p.printTableData(t.Headers, t.Rows)
	case Tabular:
		table := t.Table()
		return p.printTableData(table.Headers, table.Rows)
	}

	v := indirect(reflect.ValueOf(data))
	if !v.IsValid() {
		return nil
	}
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return fmt.Errorf("table format requires a list of items")
	}
	if v.Len() == 0 {
		return nil
	}

	headers, rows := buildTable(v)
	return p.printTableData(headers, rows)
}

func (p *Printer) printTableData(headers []string, rows [][]string) error {
	w := tabwriter.NewWriter(p.w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, strings.Join(headers, "\t"))
	for _, row := range rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	return w.Flush()
}

func buildTable(v reflect.Value) ([]string, [][]string) {
	first := indirect(v.Index(0))
	if !first.IsValid() || first.Kind() != reflect.Struct {
		rows := make([][]string, 0, v.Len())
		for i := 0; i < v.Len(); i++ {
			rows = append(rows, []string{fmt.Sprint(v.Index(i).Interface())})
		}
		return []string{"value"}, rows
	}

	fields := structFields(first.Type())
	headers := make([]string, 0, len(fields))
	for _, f := range fields {
		headers = append(headers, f.name)
	}

	rows := make([][]string, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		item := indirect(v.Index(i))
		row := make([]string, 0, len(fields))
		for _, f := range fields {
			row = append(row, fmt.Sprint(item.Field(f.index).Interface()))
		}
		rows = append(rows, row)
	}
	return headers, rows
}

type fieldInfo struct {
	name      string
	index     int
	omitEmpty bool
}

// structFields lists exported fields labelled by their json tag.
func structFields(t reflect.Type) []fieldInfo {
	fields := make([]fieldInfo, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		info := fieldInfo{name: f.Name, index: i}
		if tag := f.Tag.Get("json"); tag != "" {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				info.name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "omitempty" {
					info.omitEmpty = true
				}
			}
		}
		fields = append(fields, info)
	}
	return fields
}

func indirect(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Ptr || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}
