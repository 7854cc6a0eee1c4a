package output

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"testing"
)

type item struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	Note  string `json:"note,omitempty"`
}

type outline struct{ lines []string }

func (o outline) RenderText(w io.Writer) error {
	for _, l := range o.lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func (o outline) Table() Table {
	rows := make([][]string, 0, len(o.lines))
	for _, l := range o.lines {
		rows = append(rows, []string{l})
	}
	return Table{Headers: []string{"LINE"}, Rows: rows}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"JSON", FormatJSON, false},
		{" ndjson ", FormatNDJSON, false},
		{"table", FormatTable, false},
		{"yaml", FormatYAML, false},
		{"xml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestPrinter_JSONWithQuery(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithQuery(context.Background(), ".[] | .name")

	data := []item{{Name: "Home"}, {Name: "About", Level: 1}}
	if err := NewPrinter(&buf, FormatJSON).Print(ctx, data); err != nil {
		t.Fatalf("Print() error = %v", err)
	}
	if got := buf.String(); got != "\"Home\"\n\"About\"\n" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestPrinter_InvalidQuery(t *testing.T) {
	ctx := WithQuery(context.Background(), ".[")
	err := NewPrinter(io.Discard, FormatJSON).Print(ctx, []item{})
	if err == nil || !strings.Contains(err.Error(), "invalid --query") {
		t.Fatalf("expected invalid query error, got %v", err)
	}
}

func TestPrinter_NDJSON(t *testing.T) {
	var buf bytes.Buffer
	data := []item{{Name: "Home"}, {Name: "About", Level: 1}}
	if err := NewPrinter(&buf, FormatNDJSON).Print(context.Background(), data); err != nil {
		t.Fatal(err)
	}
	want := "{\"name\":\"Home\",\"level\":0}\n{\"name\":\"About\",\"level\":1}\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf.String(), want)
	}
}

func TestPrinter_YAML(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatYAML).Print(context.Background(), map[string]string{"status": "ok"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "status: ok\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestPrinter_TextUsesRenderer(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatText).Print(context.Background(), outline{lines: []string{"Home", "  About"}}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "Home\n  About\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestPrinter_TextStructSkipsEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatText).Print(context.Background(), item{Name: "Home"}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "name: Home\nlevel: 0\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestPrinter_TableFromStructs(t *testing.T) {
	var buf bytes.Buffer
	data := []item{{Name: "Home"}, {Name: "About", Level: 1, Note: "x"}}
	if err := NewPrinter(&buf, FormatTable).Print(context.Background(), data); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header + 2 rows, got %q", buf.String())
	}
	if !strings.HasPrefix(lines[0], "name") || !strings.Contains(lines[0], "level") {
		t.Errorf("unexpected header %q", lines[0])
	}
}

func TestPrinter_TableFromTabular(t *testing.T) {
	var buf bytes.Buffer
	if err := NewPrinter(&buf, FormatTable).Print(context.Background(), outline{lines: []string{"Home"}}); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "LINE\nHome\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestPrinter_TableRejectsScalar(t *testing.T) {
	if err := NewPrinter(io.Discard, FormatTable).Print(context.Background(), 42); err == nil {
		t.Fatal("expected error")
	}
}

func TestApplyAgentOptions(t *testing.T) {
	data := []item{{Name: "b", Level: 2}, {Name: "a", Level: 10}, {Name: "c", Level: 1}}

	ctx := WithSort(context.Background(), "level", false)
	got := ApplyAgentOptions(ctx, data).([]item)
	if got[0].Name != "c" || got[1].Name != "b" || got[2].Name != "a" {
		t.Errorf("numeric sort failed: %+v", got)
	}
	if data[0].Name != "b" {
		t.Errorf("input slice must not be reordered")
	}

	ctx = WithSort(context.Background(), "name", true)
	ctx = WithLimit(ctx, 2)
	got = ApplyAgentOptions(ctx, data).([]item)
	if len(got) != 2 || got[0].Name != "c" || got[1].Name != "b" {
		t.Errorf("desc sort + limit failed: %+v", got)
	}

	table := Table{Rows: [][]string{{"1"}, {"2"}, {"3"}}}
	limited := ApplyAgentOptions(WithLimit(context.Background(), 1), table).(Table)
	if len(limited.Rows) != 1 {
		t.Errorf("table limit failed: %+v", limited)
	}
}
