package output

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"todoapp/internal/todo"
)

var items = []todo.Item{
	{ID: 1, Title: "delectus aut autem"},
	{ID: 3001, Title: "Buy\nmilk", Completed: true},
	{ID: 3002, Title: "   "},
}

func TestFormatItemsText(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatItems(&buf, items, FormatText); err != nil {
		t.Fatal(err)
	}
	want := "     1  [ ] delectus aut autem\n" +
		"  3001  [x] Buy milk\n" +
		"  3002  [ ] (untitled)\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("text mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatItemsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatItems(&buf, items[:1], FormatJSON); err != nil {
		t.Fatal(err)
	}
	want := "[\n  {\n    \"id\": 1,\n    \"title\": \"delectus aut autem\",\n    \"completed\": false\n  }\n]\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatItemsJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := FormatItems(&buf, nil, FormatJSON); err != nil {
		t.Fatal(err)
	}
	if buf.String() != "[]\n" {
		t.Errorf("expected empty array, got %q", buf.String())
	}
}

func TestFormatItemsYAML(t *testing.T) {
	var buf bytes.Buffer
	in := []todo.Item{{ID: 3001, Title: "Buy milk", Completed: true}}
	if err := FormatItems(&buf, in, FormatYAML); err != nil {
		t.Fatal(err)
	}
	want := "- id: 3001\n  title: Buy milk\n  completed: true\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Errorf("yaml mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatItemsUnknown(t *testing.T) {
	if err := FormatItems(&bytes.Buffer{}, items, "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestFormatFilterHeader(t *testing.T) {
	var buf bytes.Buffer
	FormatFilterHeader(&buf, todo.FilterTodo, 2, 5)
	want := "------------\ntodo (2 of 5)\n------------\n"
	if buf.String() != want {
		t.Errorf("expected %q, got %q", want, buf.String())
	}
}

func TestNormalizeTitle(t *testing.T) {
	tests := map[string]string{
		"plain":      "plain",
		"a\r\nb":     "a  b",
		"":           "(untitled)",
		" \n ":       "(untitled)",
		"  padded  ": "  padded  ",
	}
	for in, want := range tests {
		if got := NormalizeTitle(in); got != want {
			t.Errorf("NormalizeTitle(%q): got %q, want %q", in, got, want)
		}
	}
}
