package ops

import (
	"context"
	"fmt"
	"testing"

	"github.com/insult0o/pdfsel/internal/db"
)

func TestList_Pagination(t *testing.T) {
	ctx := context.Background()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	for i := range 5 {
		if _, err := Save(ctx, database, SaveInput{Name: fmt.Sprintf("sel-%d", i), Selection: testSelection()}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	out, err := List(ctx, database, ListInput{Limit: 2})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 2 {
		t.Errorf("len(Items) = %d, want 2", len(out.Items))
	}
	if out.Pagination.Total != 5 || !out.Pagination.HasMore {
		t.Errorf("Pagination = %+v, want total 5 with more", out.Pagination)
	}

	out, err = List(ctx, database, ListInput{Limit: 2, Offset: 4})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(out.Items) != 1 || out.Pagination.HasMore {
		t.Errorf("last page = %d items, HasMore = %v", len(out.Items), out.Pagination.HasMore)
	}
}

func TestList_Defaults(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	out, err := List(context.Background(), database, ListInput{Limit: 1000, Offset: -3})
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if out.Pagination.Limit != MaxListLimit {
		t.Errorf("Limit = %d, want %d", out.Pagination.Limit, MaxListLimit)
	}
	if out.Pagination.Offset != 0 {
		t.Errorf("Offset = %d, want 0", out.Pagination.Offset)
	}
	if out.Items == nil || len(out.Items) != 0 {
		t.Errorf("Items = %#v, want empty", out.Items)
	}
}

func TestListNames(t *testing.T) {
	ctx := context.Background()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	for _, name := range []string{"Beta", "alpha"} {
		if _, err := Save(ctx, database, SaveInput{Name: name, Selection: testSelection()}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	names, err := ListNames(ctx, database)
	if err != nil {
		t.Fatalf("ListNames failed: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "Beta" {
		t.Errorf("ListNames = %v, want [alpha Beta]", names)
	}
}
