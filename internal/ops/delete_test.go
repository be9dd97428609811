package ops

import (
	"context"
	"testing"

	"github.com/insult0o/pdfsel/internal/db"
	"github.com/insult0o/pdfsel/internal/errors"
)

func TestDelete(t *testing.T) {
	ctx := context.Background()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	if _, err := Save(ctx, database, SaveInput{Name: "draft", Selection: testSelection()}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	out, err := Delete(ctx, database, DeleteInput{Name: "Draft"})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if !out.Deleted {
		t.Error("Deleted = false, want true")
	}

	if _, err := Fetch(ctx, database, FetchInput{Name: "draft"}); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Fetch after delete error = %v, want NOT_FOUND", err)
	}
}

func TestDelete_AbsentIsNoOp(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	out, err := Delete(context.Background(), database, DeleteInput{Name: "never saved"})
	if err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if out.Deleted {
		t.Error("Deleted = true, want false")
	}
}
