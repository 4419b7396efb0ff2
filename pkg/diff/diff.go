package diff

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

const (
	maxDiffLines    = 10000
	truncateMessage = "... (diff truncated, exceeds 10,000 lines) ..."
)

// Unified renders a unified diff between before and after content. Returns an
// empty string when the contents are identical. Oversized diffs are truncated
// with a marker so display consumers stay responsive.
func Unified(before, after, beforeLabel, afterLabel string) string {
	if before == after {
		return ""
	}

	ud := difflib.UnifiedDiff{
		A:        difflib.SplitLines(before),
		B:        difflib.SplitLines(after),
		FromFile: beforeLabel,
		ToFile:   afterLabel,
		Context:  3,
	}

	text, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return ""
	}

	lines := strings.Split(text, "\n")
	if len(lines) > maxDiffLines {
		return strings.Join(lines[:maxDiffLines], "\n") + "\n" + truncateMessage + "\n"
	}
	return text
}
