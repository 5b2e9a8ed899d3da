// Package output provides formatters for CLI output.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"todoapp/internal/todo"
)

// Output formats for item listings.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

const (
	markDone = "[x]"
	markOpen = "[ ]"
)

// ValidFormat reports whether f is a known format name.
func ValidFormat(f string) bool {
	switch f {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// FormatItem formats one item line.
// Format: "{ID:>6}  {MARK} {TITLE}\n" (6-wide right-aligned id, two spaces, mark, title)
func FormatItem(w io.Writer, it todo.Item) {
	fmt.Fprintf(w, "%6d  %s %s\n", it.ID, Mark(it), NormalizeTitle(it.Title))
}

// Mark returns the completion marker for an item.
func Mark(it todo.Item) string {
	if it.Completed {
		return markDone
	}
	return markOpen
}

// FormatItems writes items in the given format. Text output of an empty
// list is left to the caller.
func FormatItems(w io.Writer, items []todo.Item, format string) error {
	if items == nil {
		items = []todo.Item{}
	}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(items)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(items); err != nil {
			return err
		}
		return enc.Close()
	case FormatText, "":
		for _, it := range items {
			FormatItem(w, it)
		}
		return nil
	}
	return fmt.Errorf("unknown format: %s", format)
}

// FormatFilterHeader writes the separator block naming the active filter.
func FormatFilterHeader(w io.Writer, f todo.Filter, shown, total int) {
	fmt.Fprintln(w, Separator)
	fmt.Fprintf(w, "%s (%d of %d)\n", f, shown, total)
	fmt.Fprintln(w, Separator)
}

// Separator frames list headers.
const Separator = "------------"

// NormalizeTitle normalizes a title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func NormalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
