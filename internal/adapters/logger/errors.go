package logger

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"go.trai.ch/recomp/internal/ui/style"
)

// messager describes an error that can report its own message without the chain,
// as zerr.Error does.
type messager interface {
	Message() string
}

// metadataer describes an error carrying structured metadata, as zerr.Error does.
type metadataer interface {
	Metadata() map[string]any
}

// errorEntry is one link of an error chain.
type errorEntry struct {
	Message  string
	Metadata map[string]any
}

// collectErrorEntries walks the chain of zerr errors. The first error that does
// not expose its own message ends the walk with its full Error() text.
func collectErrorEntries(err error) []errorEntry {
	var entries []errorEntry
	for current := err; current != nil; {
		m, ok := current.(messager)
		if !ok {
			entries = append(entries, errorEntry{Message: current.Error()})
			break
		}

		entry := errorEntry{Message: m.Message()}
		if md, ok := current.(metadataer); ok {
			entry.Metadata = md.Metadata()
		}
		entries = append(entries, entry)
		current = errors.Unwrap(current)
	}
	return entries
}

// formatErrorEntries renders entries as the main error followed by a
// "Caused by" list. Continuation lines and metadata are indented under their entry.
func formatErrorEntries(entries []errorEntry) string {
	var lines []string

	for i, entry := range entries {
		msgLines := strings.Split(entry.Message, "\n")

		var head, indent string
		switch {
		case i == 0:
			head, indent = "Error: ", "       "
		case i == 1:
			lines = append(lines, "", "  Caused by:")
			fallthrough
		default:
			head, indent = "    "+style.Arrow+" ", "      "
		}

		lines = append(lines, head+msgLines[0])
		for _, l := range msgLines[1:] {
			lines = append(lines, indent+l)
		}

		keys := make([]string, 0, len(entry.Metadata))
		for k := range entry.Metadata {
			keys = append(keys, k)
		}
		slices.Sort(keys)
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("%s%s: %v", indent, k, entry.Metadata[k]))
		}
	}

	return strings.Join(lines, "\n")
}
