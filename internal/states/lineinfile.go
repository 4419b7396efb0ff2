package states

import (
	"context"
	"os"

	"github.com/alexisbeaulieu97/fsforge/internal/fsops"
	"github.com/alexisbeaulieu97/fsforge/internal/model"
	"github.com/alexisbeaulieu97/fsforge/internal/resolve"
	"github.com/alexisbeaulieu97/fsforge/internal/textedit"
)

// applyLineInFile edits a single line in the destination file. A missing file
// is created in presence mode and left alone in absence mode.
func applyLineInFile(ctx context.Context, env *Env, item *resolve.Item) (*model.Outcome, error) {
	doc, found, err := readDocument(item.Dest, item.Encoding)
	if err != nil {
		return nil, err
	}
	if !found {
		if item.LineAbsent {
			return &model.Outcome{Message: "file does not exist, nothing to remove"}, nil
		}
		if err := ensureParent(item, env); err != nil {
			return nil, err
		}
	}

	line := ""
	if item.Line != nil {
		line = *item.Line
	}
	updated, changed, err := textedit.EnsureLine(doc, textedit.LineParams{
		Line:         line,
		Regexp:       item.Regexp,
		InsertAfter:  item.InsertAfter,
		InsertBefore: item.InsertBefore,
		Absent:       item.LineAbsent,
	})
	if err != nil {
		return nil, err
	}
	if !changed {
		return &model.Outcome{Message: "line already correct"}, nil
	}

	return writeDocument(ctx, env, item, updated, "line updated")
}

// readDocument loads and decodes a text file for editing. A missing file
// yields an empty document and found=false.
func readDocument(path, encoding string) (textedit.Document, bool, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return textedit.Document{}, false, nil
		}
		return textedit.Document{}, false, err
	}
	content, err := fsops.DecodeContent(raw, encoding)
	if err != nil {
		return textedit.Document{}, false, err
	}
	return textedit.Parse(content), true, nil
}

func writeDocument(ctx context.Context, env *Env, item *resolve.Item, doc textedit.Document, changedMsg string) (*model.Outcome, error) {
	encoded, err := fsops.EncodeContent(doc.Content(), item.Encoding)
	if err != nil {
		return nil, err
	}
	result, err := fsops.Write(ctx, item.Dest, encoded, writeOptions(item, env))
	if err != nil {
		return nil, err
	}
	return outcomeFromWrite(result, changedMsg, "content already correct"), nil
}
