package ops

import (
	"context"
	"testing"

	"github.com/insult0o/pdfsel/internal/db"
	"github.com/insult0o/pdfsel/internal/errors"
)

func TestPersister(t *testing.T) {
	ctx := context.Background()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	p := Persister{DB: database}

	if err := p.Save(ctx, "draft", testSelection(), nil); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	sel, found, err := p.Load(ctx, "draft")
	if err != nil || !found {
		t.Fatalf("Load = found %v, err %v", found, err)
	}
	if sel.TotalCount != 2 {
		t.Errorf("TotalCount = %d, want 2", sel.TotalCount)
	}

	names, err := p.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(names) != 1 || names[0] != "draft" {
		t.Errorf("List = %v, want [draft]", names)
	}

	if err := p.Delete(ctx, "draft"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := p.Delete(ctx, "draft"); err != nil {
		t.Fatalf("second Delete failed: %v", err)
	}

	_, found, err = p.Load(ctx, "draft")
	if err != nil || found {
		t.Errorf("Load after delete = found %v, err %v; want not found", found, err)
	}
}

func TestPersister_MalformedIsNotFound(t *testing.T) {
	ctx := context.Background()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	row := &db.SavedSelection{
		Summary:       db.Summary{ID: generateULID(), NameRaw: "bad", NameNorm: "bad", Mode: "zones", SavedAt: 1},
		SelectionJSON: `[]`,
	}
	if err := db.Insert(ctx, database, row); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	_, found, err := Persister{DB: database}.Load(ctx, "bad")
	if err != nil || found {
		t.Errorf("Load = found %v, err %v; want not found without error", found, err)
	}
}

func TestPersister_StorageFailure(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	database.Close()

	p := Persister{DB: database}
	if err := p.Save(context.Background(), "draft", testSelection(), nil); !errors.Is(err, errors.ErrStorageFailure) {
		t.Errorf("Save on closed db error = %v, want STORAGE_FAILURE", err)
	}
	if _, _, err := p.Load(context.Background(), "draft"); !errors.Is(err, errors.ErrStorageFailure) {
		t.Errorf("Load on closed db error = %v, want STORAGE_FAILURE", err)
	}
}
