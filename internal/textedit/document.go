package textedit

import "strings"

// Document is a file's text split into lines plus knowledge of whether the
// original content ended with a trailing newline, so edits can round-trip
// byte-for-byte when nothing changes.
type Document struct {
	Lines           []string
	TrailingNewline bool
}

// Parse splits file content into a Document.
func Parse(content string) Document {
	if content == "" {
		return Document{Lines: []string{}}
	}
	trailing := strings.HasSuffix(content, "\n")
	trimmed := content
	if trailing {
		trimmed = strings.TrimSuffix(content, "\n")
	}
	if trimmed == "" {
		if trailing {
			return Document{Lines: []string{}, TrailingNewline: true}
		}
		return Document{Lines: []string{""}}
	}
	return Document{Lines: strings.Split(trimmed, "\n"), TrailingNewline: trailing}
}

// Content joins the Document back into file content.
func (d Document) Content() string {
	if len(d.Lines) == 0 {
		if d.TrailingNewline {
			return "\n"
		}
		return ""
	}
	joined := strings.Join(d.Lines, "\n")
	if d.TrailingNewline {
		return joined + "\n"
	}
	return joined
}

func (d Document) clone() Document {
	return Document{
		Lines:           append([]string{}, d.Lines...),
		TrailingNewline: d.TrailingNewline,
	}
}

// insertAt places newLines before index idx, clamped to the document bounds.
func (d *Document) insertAt(idx int, newLines ...string) {
	if idx < 0 {
		idx = 0
	}
	if idx > len(d.Lines) {
		idx = len(d.Lines)
	}
	updated := make([]string, 0, len(d.Lines)+len(newLines))
	updated = append(updated, d.Lines[:idx]...)
	updated = append(updated, newLines...)
	updated = append(updated, d.Lines[idx:]...)
	d.Lines = updated
}
