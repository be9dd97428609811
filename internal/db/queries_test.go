package db

import (
	"context"
	"testing"

	"github.com/insult0o/pdfsel/internal/errors"
)

// newTestSaved creates a saved selection row with default values for testing.
func newTestSaved(id, name string, savedAt int64) *SavedSelection {
	return &SavedSelection{
		Summary: Summary{
			ID:         id,
			NameRaw:    name,
			NameNorm:   name,
			Mode:       "zones",
			TotalCount: 1,
			ItemCount:  2,
			SavedAt:    savedAt,
		},
		SelectionJSON: `{"mode":"zones"}`,
	}
}

// stringPtr returns a pointer to the given string.
func stringPtr(s string) *string {
	return &s
}

func TestInsertAndGetByName(t *testing.T) {
	ctx := context.Background()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	s := newTestSaved("01ABC123", "chapter one", 1000)
	s.SavedBy = stringPtr("alice")

	if err := Insert(ctx, db, s); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	got, err := GetByName(ctx, db, "chapter one")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if got.ID != s.ID {
		t.Errorf("ID = %q, want %q", got.ID, s.ID)
	}
	if got.SelectionJSON != s.SelectionJSON {
		t.Errorf("SelectionJSON = %q, want %q", got.SelectionJSON, s.SelectionJSON)
	}
	if got.SavedBy == nil || *got.SavedBy != "alice" {
		t.Errorf("SavedBy = %v, want alice", got.SavedBy)
	}
	if got.ItemCount != 2 || got.TotalCount != 1 {
		t.Errorf("counts = %d/%d, want 1/2", got.TotalCount, got.ItemCount)
	}

	byID, err := GetByID(ctx, db, s.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if byID.NameRaw != "chapter one" {
		t.Errorf("NameRaw = %q, want %q", byID.NameRaw, "chapter one")
	}
}

func TestGetByName_NotFound(t *testing.T) {
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	_, err = GetByName(context.Background(), db, "missing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetByName() error = %v, want NOT_FOUND", err)
	}
}

func TestInsert_DuplicateName(t *testing.T) {
	ctx := context.Background()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	if err := Insert(ctx, db, newTestSaved("01A", "dup", 1)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}
	err = Insert(ctx, db, newTestSaved("01B", "dup", 2))
	if err != ErrUniqueConstraint {
		t.Errorf("Insert() error = %v, want ErrUniqueConstraint", err)
	}
}

func TestUpsert_KeepsIDAndReplacesBody(t *testing.T) {
	ctx := context.Background()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	first := newTestSaved("01FIRST", "draft", 100)
	if err := Upsert(ctx, db, first); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if first.ID != "01FIRST" {
		t.Errorf("ID after insert = %q, want 01FIRST", first.ID)
	}

	second := newTestSaved("01SECOND", "draft", 200)
	second.NameRaw = "Draft"
	second.SelectionJSON = `{"mode":"all"}`
	second.Mode = "all"
	if err := Upsert(ctx, db, second); err != nil {
		t.Fatalf("Upsert failed: %v", err)
	}
	if second.ID != "01FIRST" {
		t.Errorf("ID after update = %q, want 01FIRST", second.ID)
	}

	got, err := GetByName(ctx, db, "draft")
	if err != nil {
		t.Fatalf("GetByName failed: %v", err)
	}
	if got.NameRaw != "Draft" || got.Mode != "all" || got.SavedAt != 200 {
		t.Errorf("row = %+v, want replaced values", got.Summary)
	}

	n, err := Count(ctx, db)
	if err != nil {
		t.Fatalf("Count failed: %v", err)
	}
	if n != 1 {
		t.Errorf("Count = %d, want 1", n)
	}
}

func TestListNamesAndSummaries(t *testing.T) {
	ctx := context.Background()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	for i, name := range []string{"bravo", "alpha", "charlie"} {
		if err := Insert(ctx, db, newTestSaved("01ID"+name, name, int64(i+1))); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	names, err := ListNames(ctx, db)
	if err != nil {
		t.Fatalf("ListNames failed: %v", err)
	}
	want := []string{"alpha", "bravo", "charlie"}
	if len(names) != len(want) {
		t.Fatalf("ListNames = %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}

	page, err := ListSummaries(ctx, db, 2, 0)
	if err != nil {
		t.Fatalf("ListSummaries failed: %v", err)
	}
	if len(page) != 2 {
		t.Fatalf("len(page) = %d, want 2", len(page))
	}
	if page[0].NameRaw != "charlie" || page[1].NameRaw != "alpha" {
		t.Errorf("page order = %q, %q; want charlie, alpha", page[0].NameRaw, page[1].NameRaw)
	}

	rest, err := ListSummaries(ctx, db, 2, 2)
	if err != nil {
		t.Fatalf("ListSummaries failed: %v", err)
	}
	if len(rest) != 1 || rest[0].NameRaw != "bravo" {
		t.Errorf("second page = %+v, want [bravo]", rest)
	}
}

func TestListNames_Empty(t *testing.T) {
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	names, err := ListNames(context.Background(), db)
	if err != nil {
		t.Fatalf("ListNames failed: %v", err)
	}
	if names == nil || len(names) != 0 {
		t.Errorf("ListNames = %#v, want empty non-nil slice", names)
	}
}

func TestDeleteByName(t *testing.T) {
	ctx := context.Background()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	if err := Insert(ctx, db, newTestSaved("01DEL", "gone", 1)); err != nil {
		t.Fatalf("Insert failed: %v", err)
	}

	deleted, err := DeleteByName(ctx, db, "gone")
	if err != nil {
		t.Fatalf("DeleteByName failed: %v", err)
	}
	if !deleted {
		t.Error("DeleteByName = false, want true")
	}

	deleted, err = DeleteByName(ctx, db, "gone")
	if err != nil {
		t.Fatalf("DeleteByName failed: %v", err)
	}
	if deleted {
		t.Error("second DeleteByName = true, want false")
	}
}

func TestStreamForExport(t *testing.T) {
	ctx := context.Background()
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	for _, name := range []string{"b", "a"} {
		if err := Insert(ctx, db, newTestSaved("01"+name, name, 1)); err != nil {
			t.Fatalf("Insert failed: %v", err)
		}
	}

	rows, err := StreamForExport(ctx, db)
	if err != nil {
		t.Fatalf("StreamForExport failed: %v", err)
	}
	defer rows.Close()

	var got []string
	for rows.Next() {
		s, err := ScanSavedFromRows(rows)
		if err != nil {
			t.Fatalf("ScanSavedFromRows failed: %v", err)
		}
		got = append(got, s.NameNorm)
	}
	if err := rows.Err(); err != nil {
		t.Fatalf("rows.Err() = %v", err)
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("streamed = %v, want [a b]", got)
	}
}

func TestClosedDB_StorageFailure(t *testing.T) {
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	db.Close()

	err = Upsert(context.Background(), db, newTestSaved("01X", "x", 1))
	if !errors.Is(err, errors.ErrStorageFailure) {
		t.Errorf("Upsert() on closed db error = %v, want STORAGE_FAILURE", err)
	}
}

func TestCancelledContext(t *testing.T) {
	db, err := Init(t.TempDir())
	if err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = ListNames(ctx, db)
	if !errors.Is(err, errors.ErrCancelled) {
		t.Errorf("ListNames() with cancelled ctx error = %v, want CANCELLED", err)
	}
}
