package stager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/juun0-h/korean-english-oral-test-data-analysis/adapters/memory"
	apperrors "github.com/juun0-h/korean-english-oral-test-data-analysis/internal/errors"
)

// writeRecord drops a raw record into the local tree layout the stager
// scans: <root>/<level>/<participant>/<file>.json.
func writeRecord(t *testing.T, root, level, participantDir, file, date string) string {
	t.Helper()
	dir := filepath.Join(root, level, participantDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, file)
	body := fmt.Sprintf(`{"speaker":{"id":"x"},"metadata":{"date":%q}}`, date)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestIsValidDate(t *testing.T) {
	valid := []string{"20240115", "19991231", "20240229"}
	for _, d := range valid {
		if !IsValidDate(d) {
			t.Errorf("IsValidDate(%q) = false, want true", d)
		}
	}
	invalid := []string{"", "2024011", "202401155", "2024-01-15", "20241301", "20240132", "abcdefgh"}
	for _, d := range invalid {
		if IsValidDate(d) {
			t.Errorf("IsValidDate(%q) = true, want false", d)
		}
	}
}

func TestRunRejectsInvalidTargetDate(t *testing.T) {
	s := New(memory.New(), t.TempDir(), "raw/")
	_, err := s.Run(context.Background(), "2024-01-15")
	if !apperrors.Is(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}

func TestRunUploadsMatchingFilesWithPartitionedKeys(t *testing.T) {
	root := t.TempDir()
	writeRecord(t, root, "IG", "spk_0001_json", "rec.json", "20240115")
	writeRecord(t, root, "TH", "spk_0002_json", "rec.json", "20240115")
	writeRecord(t, root, "TL", "spk_0003_json", "rec.json", "20240116") // other day

	store := memory.New()
	s := New(store, root, "raw/")

	result, err := s.Run(context.Background(), "20240115")
	if err != nil {
		t.Fatal(err)
	}
	if result.Matched != 2 || result.Uploaded != 2 || result.Skipped != 0 || result.Failed != 0 {
		t.Fatalf("result = %+v", result)
	}

	wantKeys := []string{
		"raw/year=2024/month=01/day=15/level=IG/spk_0001_json/rec.json",
		"raw/year=2024/month=01/day=15/level=TH/spk_0002_json/rec.json",
	}
	for _, key := range wantKeys {
		exists, err := store.Exists(context.Background(), key)
		if err != nil || !exists {
			t.Errorf("key %s missing after run (err=%v)", key, err)
		}
	}
	if store.Len() != 2 {
		t.Errorf("store holds %d objects, want 2", store.Len())
	}
}

func TestRunSkipsAlreadyStagedFiles(t *testing.T) {
	root := t.TempDir()
	writeRecord(t, root, "TM", "spk_0009_json", "rec.json", "20240301")

	store := memory.New()
	s := New(store, root, "raw/")
	ctx := context.Background()

	first, err := s.Run(ctx, "20240301")
	if err != nil {
		t.Fatal(err)
	}
	if first.Uploaded != 1 {
		t.Fatalf("first run uploaded %d, want 1", first.Uploaded)
	}

	// Second pass over the same tree: everything already exists.
	second, err := s.Run(ctx, "20240301")
	if err != nil {
		t.Fatal(err)
	}
	if second.Matched != 1 || second.Uploaded != 0 || second.Skipped != 1 {
		t.Fatalf("second run = %+v, want all skipped", second)
	}
	if store.Len() != 1 {
		t.Errorf("store holds %d objects, want 1", store.Len())
	}
}

func TestRunExcludesMalformedDates(t *testing.T) {
	root := t.TempDir()
	writeRecord(t, root, "IG", "good_json", "rec.json", "20240501")
	writeRecord(t, root, "IG", "short_json", "rec.json", "2024051")
	writeRecord(t, root, "IG", "absent_json", "rec.json", "")

	// Structurally broken file in the same tree.
	brokenDir := filepath.Join(root, "IG", "broken_json")
	if err := os.MkdirAll(brokenDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(brokenDir, "rec.json"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	s := New(memory.New(), root, "raw/")
	result, err := s.Run(context.Background(), "20240501")
	if err != nil {
		t.Fatal(err)
	}
	if result.Matched != 1 || result.Uploaded != 1 {
		t.Fatalf("result = %+v, want only the well-dated file", result)
	}
}

func TestRunIgnoresUnknownLevelDirectories(t *testing.T) {
	root := t.TempDir()
	writeRecord(t, root, "IG", "good_json", "rec.json", "20240601")
	writeRecord(t, root, "XX", "stray_json", "rec.json", "20240601")

	s := New(memory.New(), root, "raw/")
	result, err := s.Run(context.Background(), "20240601")
	if err != nil {
		t.Fatal(err)
	}
	if result.Matched != 1 {
		t.Fatalf("matched %d, want 1 (unknown level dir must be skipped)", result.Matched)
	}
}

func TestRunEmptyTreeIsCleanNoop(t *testing.T) {
	s := New(memory.New(), t.TempDir(), "raw/")
	result, err := s.Run(context.Background(), "20240101")
	if err != nil {
		t.Fatal(err)
	}
	if result != (Result{}) {
		t.Fatalf("result = %+v, want zero", result)
	}
}
