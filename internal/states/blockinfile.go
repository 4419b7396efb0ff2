package states

import (
	"context"

	"github.com/alexisbeaulieu97/fsforge/internal/model"
	"github.com/alexisbeaulieu97/fsforge/internal/resolve"
	"github.com/alexisbeaulieu97/fsforge/internal/textedit"
)

// applyBlockInFile edits a marker-delimited block in the destination file.
// Missing file semantics mirror lineinfile: presence creates, absence is a
// no-op.
func applyBlockInFile(ctx context.Context, env *Env, item *resolve.Item) (*model.Outcome, error) {
	doc, found, err := readDocument(item.Dest, item.Encoding)
	if err != nil {
		return nil, err
	}
	if !found {
		if item.BlockAbsent {
			return &model.Outcome{Message: "file does not exist, nothing to remove"}, nil
		}
		if err := ensureParent(item, env); err != nil {
			return nil, err
		}
	}

	block := ""
	if item.Block != nil {
		block = *item.Block
	}
	updated, changed, err := textedit.EnsureBlock(doc, textedit.BlockParams{
		Block:        block,
		Marker:       item.Marker,
		MarkerBegin:  item.MarkerBegin,
		MarkerEnd:    item.MarkerEnd,
		InsertAfter:  item.InsertAfter,
		InsertBefore: item.InsertBefore,
		Absent:       item.BlockAbsent,
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return &model.Outcome{Message: "block already correct"}, nil
	}

	return writeDocument(ctx, env, item, updated, "block updated")
}
