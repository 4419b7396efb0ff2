package textedit

import (
	"fmt"
	"regexp"
)

// Anchor special values understood by the insertion logic.
const (
	AnchorEOF = "EOF"
	AnchorBOF = "BOF"
)

// LineParams drives a single line edit. Regexp and the anchors are regex
// source strings; InsertAfter and InsertBefore additionally accept the EOF
// and BOF tokens. The resolver guarantees the two anchors are never both set.
type LineParams struct {
	Line         string
	Regexp       string
	InsertAfter  string
	InsertBefore string
	Absent       bool
}

// EnsureLine converges a document toward the line state described by params
// and reports whether the content changed.
//
// Presence mode replaces the last line matching Regexp, or inserts the line
// at the anchor position when nothing matches. Absence mode removes every
// matching line.
func EnsureLine(doc Document, params LineParams) (Document, bool, error) {
	if params.Absent {
		return removeLines(doc, params)
	}
	return ensurePresent(doc, params)
}

func ensurePresent(doc Document, params LineParams) (Document, bool, error) {
	updated := doc.clone()

	if params.Regexp != "" {
		pattern, err := regexp.Compile(params.Regexp)
		if err != nil {
			return doc, false, fmt.Errorf("invalid regexp: %w", err)
		}
		if idx, ok := lastMatch(updated.Lines, pattern); ok {
			if updated.Lines[idx] == params.Line {
				return doc, false, nil
			}
			updated.Lines[idx] = params.Line
			return updated, true, nil
		}
	} else {
		for _, existing := range updated.Lines {
			if existing == params.Line {
				return doc, false, nil
			}
		}
	}

	if err := insertLines(&updated, params.InsertAfter, params.InsertBefore, params.Line); err != nil {
		return doc, false, err
	}
	updated.TrailingNewline = true
	return updated, true, nil
}

func removeLines(doc Document, params LineParams) (Document, bool, error) {
	var match func(string) bool
	if params.Regexp != "" {
		pattern, err := regexp.Compile(params.Regexp)
		if err != nil {
			return doc, false, fmt.Errorf("invalid regexp: %w", err)
		}
		match = pattern.MatchString
	} else {
		match = func(line string) bool { return line == params.Line }
	}

	filtered := make([]string, 0, len(doc.Lines))
	for _, line := range doc.Lines {
		if match(line) {
			continue
		}
		filtered = append(filtered, line)
	}

	if len(filtered) == len(doc.Lines) {
		return doc, false, nil
	}

	updated := Document{Lines: filtered, TrailingNewline: doc.TrailingNewline}
	if len(updated.Lines) == 0 {
		updated.TrailingNewline = false
	}
	return updated, true, nil
}

// insertLines places newLines at the anchor position. InsertAfter targets the
// position after the last anchor match, falling back to end-of-file;
// InsertBefore targets the position before the last anchor match, falling
// back to beginning-of-file. With no anchor at all, append at end-of-file.
func insertLines(doc *Document, insertAfter, insertBefore string, newLines ...string) error {
	switch {
	case insertBefore != "":
		if insertBefore == AnchorBOF {
			doc.insertAt(0, newLines...)
			return nil
		}
		pattern, err := regexp.Compile(insertBefore)
		if err != nil {
			return fmt.Errorf("invalid insertbefore: %w", err)
		}
		if idx, ok := lastMatch(doc.Lines, pattern); ok {
			doc.insertAt(idx, newLines...)
		} else {
			doc.insertAt(0, newLines...)
		}
	case insertAfter != "" && insertAfter != AnchorEOF:
		pattern, err := regexp.Compile(insertAfter)
		if err != nil {
			return fmt.Errorf("invalid insertafter: %w", err)
		}
		if idx, ok := lastMatch(doc.Lines, pattern); ok {
			doc.insertAt(idx+1, newLines...)
		} else {
			doc.insertAt(len(doc.Lines), newLines...)
		}
	default:
		doc.insertAt(len(doc.Lines), newLines...)
	}
	return nil
}

func lastMatch(lines []string, pattern *regexp.Regexp) (int, bool) {
	idx := -1
	for i, line := range lines {
		if pattern.MatchString(line) {
			idx = i
		}
	}
	return idx, idx >= 0
}
