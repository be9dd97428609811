package ops

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/insult0o/pdfsel/internal/config"
	"github.com/insult0o/pdfsel/internal/db"
	"github.com/insult0o/pdfsel/internal/errors"
)

// unsafeConfig allows export/import anywhere so tests can use t.TempDir().
func unsafeConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.AllowUnsafePaths = true
	return cfg
}

func TestExport_HappyPath(t *testing.T) {
	ctx := context.Background()
	tmpDir := t.TempDir()
	database, err := db.Init(tmpDir)
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	for _, name := range []string{"beta", "alpha"} {
		if _, err := Save(ctx, database, SaveInput{Name: name, Selection: testSelection()}); err != nil {
			t.Fatalf("Save failed: %v", err)
		}
	}

	exportPath := filepath.Join(tmpDir, "export.jsonl")
	output, err := Export(ctx, database, unsafeConfig(), ExportInput{Path: exportPath})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if output.Path != exportPath {
		t.Errorf("Path = %q, want %q", output.Path, exportPath)
	}
	if output.Count != 2 {
		t.Errorf("Count = %d, want 2", output.Count)
	}

	file, err := os.Open(exportPath)
	if err != nil {
		t.Fatalf("failed to open export: %v", err)
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if len(lines) != 3 {
		t.Fatalf("line count = %d, want 3", len(lines))
	}

	var header ExportHeader
	if err := json.Unmarshal([]byte(lines[0]), &header); err != nil {
		t.Fatalf("header unmarshal failed: %v", err)
	}
	if !header.PdfselExport || header.SchemaVersion != ExportSchemaVersion {
		t.Errorf("header = %+v", header)
	}

	var rec ExportRecord
	if err := json.Unmarshal([]byte(lines[1]), &rec); err != nil {
		t.Fatalf("record unmarshal failed: %v", err)
	}
	if rec.Name != "alpha" {
		t.Errorf("first record name = %q, want alpha", rec.Name)
	}
	if rec.Selection.TotalCount != 2 || len(rec.Selection.ZoneIDs) != 1 {
		t.Errorf("record selection = %+v", rec.Selection)
	}

	// no temp files left behind
	entries, _ := os.ReadDir(tmpDir)
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".tmp") {
			t.Errorf("temp file left behind: %s", e.Name())
		}
	}
}

func TestExport_DefaultPath(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	database, err := db.Init(filepath.Join(home, ".pdfsel"))
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	output, err := Export(context.Background(), database, config.DefaultConfig(), ExportInput{})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if filepath.Dir(output.Path) != filepath.Join(home, ".pdfsel", "exports") {
		t.Errorf("Path = %q, want it inside the exports dir", output.Path)
	}
	if output.Count != 0 {
		t.Errorf("Count = %d, want 0", output.Count)
	}
}

func TestExport_PathRejected(t *testing.T) {
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	defer database.Close()

	_, err = Export(context.Background(), database, unsafeConfig(), ExportInput{Path: filepath.Join(t.TempDir(), "out.json")})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Export() error = %v, want INVALID_REQUEST", err)
	}
}
