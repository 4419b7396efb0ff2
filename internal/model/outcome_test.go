package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRunResultCountsMatchRecords(t *testing.T) {
	t.Parallel()

	var run RunResult
	run.Append(Outcome{Dest: "/a", Changed: true})
	run.Append(Outcome{Dest: "/b"})
	run.Append(Outcome{Dest: "/c", Skipped: true, SkipReason: "creates path exists"})
	run.Append(Outcome{Dest: "/d", Failed: true, Err: errors.New("boom")})
	run.Append(Outcome{Dest: "/e", Changed: true})

	assert.Len(t, run.Records, 5)
	assert.Equal(t, 2, run.Changed)
	assert.Equal(t, 1, run.Unchanged)
	assert.Equal(t, 1, run.Skipped)
	assert.Equal(t, 1, run.Failed)
	assert.True(t, run.HasChanges())
	assert.True(t, run.HasFailures())
}

func TestRunResultPreservesInputOrder(t *testing.T) {
	t.Parallel()

	var run RunResult
	for _, dest := range []string{"/z", "/a", "/m"} {
		run.Append(Outcome{Dest: dest})
	}

	assert.Equal(t, "/z", run.Records[0].Dest)
	assert.Equal(t, "/a", run.Records[1].Dest)
	assert.Equal(t, "/m", run.Records[2].Dest)
}

func TestOutcomeCompleted(t *testing.T) {
	t.Parallel()

	assert.True(t, (&Outcome{Changed: true}).Completed())
	assert.True(t, (&Outcome{}).Completed())
	assert.False(t, (&Outcome{Skipped: true}).Completed())
	assert.False(t, (&Outcome{Failed: true}).Completed())
}

func TestFailuresAreNotChanges(t *testing.T) {
	t.Parallel()

	var run RunResult
	run.Append(Outcome{Dest: "/a", Failed: true})

	assert.False(t, run.HasChanges())
	assert.True(t, run.HasFailures())
}
