package textedit

import "strings"

// MarkToken is the placeholder in a marker template that is substituted with
// the begin and end tokens to derive the two literal marker lines.
const MarkToken = "{mark}"

// BlockParams drives a single block edit. Marker must contain MarkToken; the
// derived begin/end marker lines delimit the managed region.
type BlockParams struct {
	Block        string
	Marker       string
	MarkerBegin  string
	MarkerEnd    string
	InsertAfter  string
	InsertBefore string
	Absent       bool
}

// Markers returns the literal begin and end marker lines.
func (p BlockParams) Markers() (string, string) {
	begin := strings.ReplaceAll(p.Marker, MarkToken, p.MarkerBegin)
	end := strings.ReplaceAll(p.Marker, MarkToken, p.MarkerEnd)
	return begin, end
}

// EnsureBlock converges a document toward the block state described by
// params and reports whether the content changed.
//
// Only the first begin/end marker pair in file order is considered; later
// pairs are left untouched. Presence mode replaces everything strictly
// between the markers, or inserts a complete marker+block+marker unit at the
// anchor position when no pair exists. Absence mode removes the first pair
// and its interior.
func EnsureBlock(doc Document, params BlockParams) (Document, bool, error) {
	begin, end := params.Markers()

	if params.Absent {
		return removeBlock(doc, begin, end)
	}

	blockLines := splitBlock(params.Block)
	updated := doc.clone()

	if beginIdx, endIdx, ok := firstPair(updated.Lines, begin, end); ok {
		interior := updated.Lines[beginIdx+1 : endIdx]
		if equalLines(interior, blockLines) {
			return doc, false, nil
		}
		replaced := make([]string, 0, len(updated.Lines)-len(interior)+len(blockLines))
		replaced = append(replaced, updated.Lines[:beginIdx+1]...)
		replaced = append(replaced, blockLines...)
		replaced = append(replaced, updated.Lines[endIdx:]...)
		updated.Lines = replaced
		return updated, true, nil
	}

	unit := make([]string, 0, len(blockLines)+2)
	unit = append(unit, begin)
	unit = append(unit, blockLines...)
	unit = append(unit, end)

	if err := insertLines(&updated, params.InsertAfter, params.InsertBefore, unit...); err != nil {
		return doc, false, err
	}
	updated.TrailingNewline = true
	return updated, true, nil
}

func removeBlock(doc Document, begin, end string) (Document, bool, error) {
	beginIdx, endIdx, ok := firstPair(doc.Lines, begin, end)
	if !ok {
		return doc, false, nil
	}

	updated := doc.clone()
	updated.Lines = append(updated.Lines[:beginIdx], updated.Lines[endIdx+1:]...)
	if len(updated.Lines) == 0 {
		updated.TrailingNewline = false
	}
	return updated, true, nil
}

// firstPair locates the first begin marker and the first end marker after
// it. A begin marker with no following end marker is not a pair.
func firstPair(lines []string, begin, end string) (int, int, bool) {
	beginIdx := -1
	for i, line := range lines {
		if line == begin {
			beginIdx = i
			break
		}
	}
	if beginIdx < 0 {
		return 0, 0, false
	}
	for i := beginIdx + 1; i < len(lines); i++ {
		if lines[i] == end {
			return beginIdx, i, true
		}
	}
	return 0, 0, false
}

func splitBlock(block string) []string {
	if block == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(block, "\n"), "\n")
}

func equalLines(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
