package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/timmy/clipforge/internal/storage"
)

func newTestArtifacts(t *testing.T) (*ArtifactService, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(&storage.LocalConfig{Dir: dir, PublicURL: "http://localhost:8080/clips"})
	if err != nil {
		t.Fatalf("NewLocalStorage failed: %v", err)
	}
	return NewArtifactService(store, dir), dir
}

func TestValidateName(t *testing.T) {
	svc, _ := newTestArtifacts(t)

	valid := []string{"abc123def456.mp4", "clip.mp4"}
	for _, name := range valid {
		if err := svc.ValidateName(name); err != nil {
			t.Errorf("ValidateName(%q) should pass: %v", name, err)
		}
	}

	invalid := []string{"", "../etc/passwd", "a/../b.mp4", "sub/clip.mp4", "..mp4.."}
	for _, name := range invalid {
		if err := svc.ValidateName(name); err == nil {
			t.Errorf("ValidateName(%q) should fail", name)
		}
	}
}

func TestArtifactURL(t *testing.T) {
	svc, _ := newTestArtifacts(t)

	if got := svc.URL("abc.mp4"); got != "http://localhost:8080/clips/abc.mp4" {
		t.Errorf("Unexpected URL: %s", got)
	}
}

func TestArtifactListAndDelete(t *testing.T) {
	svc, dir := newTestArtifacts(t)
	ctx := context.Background()

	if err := os.WriteFile(filepath.Join(dir, "a.mp4"), []byte("aaaa"), 0644); err != nil {
		t.Fatalf("Failed to seed artifact: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "b.mp4.part"), []byte("partial"), 0644); err != nil {
		t.Fatalf("Failed to seed partial: %v", err)
	}

	artifacts, err := svc.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(artifacts) != 1 {
		t.Fatalf("Partial files must not be listed: got %d entries", len(artifacts))
	}
	if artifacts[0].Filename != "a.mp4" || artifacts[0].Size != 4 {
		t.Errorf("Unexpected listing: %+v", artifacts[0])
	}

	if err := svc.Delete(ctx, "a.mp4"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "a.mp4")); !os.IsNotExist(err) {
		t.Errorf("Artifact should be gone: %v", err)
	}

	if err := svc.Delete(ctx, "../a.mp4"); err == nil {
		t.Error("Traversal delete should be rejected")
	}
}
