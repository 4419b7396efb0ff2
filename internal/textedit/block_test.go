package textedit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func blockParams() BlockParams {
	return BlockParams{
		Marker:      "# {mark} MANAGED BLOCK",
		MarkerBegin: "BEGIN",
		MarkerEnd:   "END",
	}
}

func TestMarkersDerivedFromTemplate(t *testing.T) {
	t.Parallel()

	begin, end := blockParams().Markers()
	assert.Equal(t, "# BEGIN MANAGED BLOCK", begin)
	assert.Equal(t, "# END MANAGED BLOCK", end)
}

func TestEnsureBlockInsertsUnitAtEOF(t *testing.T) {
	t.Parallel()

	params := blockParams()
	params.Block = "10.0.0.1 app1\n10.0.0.2 app2\n"

	doc := Document{Lines: []string{"127.0.0.1 localhost"}, TrailingNewline: true}
	updated, changed, err := EnsureBlock(doc, params)

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{
		"127.0.0.1 localhost",
		"# BEGIN MANAGED BLOCK",
		"10.0.0.1 app1",
		"10.0.0.2 app2",
		"# END MANAGED BLOCK",
	}, updated.Lines)
}

func TestEnsureBlockReplacesInteriorPreservingMarkers(t *testing.T) {
	t.Parallel()

	params := blockParams()
	params.Block = "new\n"

	doc := Document{Lines: []string{
		"head",
		"# BEGIN MANAGED BLOCK",
		"old",
		"# END MANAGED BLOCK",
		"tail",
	}, TrailingNewline: true}

	updated, changed, err := EnsureBlock(doc, params)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{
		"head",
		"# BEGIN MANAGED BLOCK",
		"new",
		"# END MANAGED BLOCK",
		"tail",
	}, updated.Lines)
}

func TestEnsureBlockUnchangedWhenInteriorCorrect(t *testing.T) {
	t.Parallel()

	params := blockParams()
	params.Block = "same\n"

	doc := Document{Lines: []string{
		"# BEGIN MANAGED BLOCK",
		"same",
		"# END MANAGED BLOCK",
	}, TrailingNewline: true}

	_, changed, err := EnsureBlock(doc, params)
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestEnsureBlockOnlyFirstPairTouched(t *testing.T) {
	t.Parallel()

	params := blockParams()
	params.Block = "updated\n"

	doc := Document{Lines: []string{
		"# BEGIN MANAGED BLOCK",
		"first",
		"# END MANAGED BLOCK",
		"between",
		"# BEGIN MANAGED BLOCK",
		"second",
		"# END MANAGED BLOCK",
	}, TrailingNewline: true}

	updated, changed, err := EnsureBlock(doc, params)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{
		"# BEGIN MANAGED BLOCK",
		"updated",
		"# END MANAGED BLOCK",
		"between",
		"# BEGIN MANAGED BLOCK",
		"second",
		"# END MANAGED BLOCK",
	}, updated.Lines)
}

func TestEnsureBlockBeginWithoutEndIsNotAPair(t *testing.T) {
	t.Parallel()

	params := blockParams()
	params.Block = "content\n"

	doc := Document{Lines: []string{"# BEGIN MANAGED BLOCK", "dangling"}, TrailingNewline: true}
	updated, changed, err := EnsureBlock(doc, params)

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{
		"# BEGIN MANAGED BLOCK",
		"dangling",
		"# BEGIN MANAGED BLOCK",
		"content",
		"# END MANAGED BLOCK",
	}, updated.Lines)
}

func TestEnsureBlockInsertAnchors(t *testing.T) {
	t.Parallel()

	params := blockParams()
	params.Block = "x\n"
	params.InsertBefore = AnchorBOF

	doc := Document{Lines: []string{"existing"}, TrailingNewline: true}
	updated, changed, err := EnsureBlock(doc, params)

	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "# BEGIN MANAGED BLOCK", updated.Lines[0])
	assert.Equal(t, "existing", updated.Lines[3])
}

func TestEnsureBlockAbsentRemovesPairAndInterior(t *testing.T) {
	t.Parallel()

	params := blockParams()
	params.Absent = true

	doc := Document{Lines: []string{
		"keep",
		"# BEGIN MANAGED BLOCK",
		"managed",
		"# END MANAGED BLOCK",
		"also keep",
	}, TrailingNewline: true}

	updated, changed, err := EnsureBlock(doc, params)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"keep", "also keep"}, updated.Lines)
}

func TestEnsureBlockAbsentWithoutPairUnchanged(t *testing.T) {
	t.Parallel()

	params := blockParams()
	params.Absent = true

	doc := Document{Lines: []string{"no markers here"}, TrailingNewline: true}
	_, changed, err := EnsureBlock(doc, params)

	require.NoError(t, err)
	assert.False(t, changed)
}

func TestEnsureBlockEmptyBlockKeepsMarkersAdjacent(t *testing.T) {
	t.Parallel()

	params := blockParams()
	params.Block = ""

	updated, changed, err := EnsureBlock(Parse(""), params)
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, []string{"# BEGIN MANAGED BLOCK", "# END MANAGED BLOCK"}, updated.Lines)
}
