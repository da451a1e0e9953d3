package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewMediaStoreCreatesSubdirectories(t *testing.T) {
	root := t.TempDir()
	if _, err := NewMediaStore(root); err != nil {
		t.Fatalf("NewMediaStore: %v", err)
	}
	for _, kind := range []string{KindSong, KindAlbumArt, KindArtistArt} {
		if _, err := os.Stat(filepath.Join(root, kind)); err != nil {
			t.Errorf("expected %s directory to exist: %v", kind, err)
		}
	}
}

func TestSaveAndRemove(t *testing.T) {
	root := t.TempDir()
	store, err := NewMediaStore(root)
	if err != nil {
		t.Fatalf("NewMediaStore: %v", err)
	}

	ref, err := store.Save(KindSong, "track.mp3", strings.NewReader("audio-bytes"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasPrefix(ref, KindSong+"/") || !strings.HasSuffix(ref, "-track.mp3") {
		t.Errorf("ref = %q, want songs/<uuid>-track.mp3", ref)
	}

	onDisk := filepath.Join(root, filepath.FromSlash(ref))
	data, err := os.ReadFile(onDisk)
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if string(data) != "audio-bytes" {
		t.Errorf("stored content = %q", data)
	}

	if err := store.Remove(ref); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(onDisk); !os.IsNotExist(err) {
		t.Error("file should be gone after Remove")
	}

	// Removing again is not an error.
	if err := store.Remove(ref); err != nil {
		t.Errorf("Remove of missing file should be nil, got %v", err)
	}
}

func TestSaveAvoidsNameCollisions(t *testing.T) {
	store, err := NewMediaStore(t.TempDir())
	if err != nil {
		t.Fatalf("NewMediaStore: %v", err)
	}
	ref1, err := store.Save(KindAlbumArt, "cover.png", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	ref2, err := store.Save(KindAlbumArt, "cover.png", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if ref1 == ref2 {
		t.Error("same original filename must produce distinct references")
	}
}

func TestRemoveSkipsPlaceholders(t *testing.T) {
	root := t.TempDir()
	store, err := NewMediaStore(root)
	if err != nil {
		t.Fatalf("NewMediaStore: %v", err)
	}

	// Seed the shared placeholder file.
	placeholder := filepath.Join(root, KindAlbumArt, "default.png")
	if err := os.WriteFile(placeholder, []byte("png"), 0o644); err != nil {
		t.Fatal(err)
	}

	if err := store.Remove(DefaultAlbumArt); err != nil {
		t.Fatalf("Remove(placeholder): %v", err)
	}
	if _, err := os.Stat(placeholder); err != nil {
		t.Error("placeholder must survive Remove")
	}

	if err := store.Remove(""); err != nil {
		t.Errorf("Remove of empty ref should be nil, got %v", err)
	}
}

func TestIsPlaceholder(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{DefaultAlbumArt, true},
		{DefaultArtistArt, true},
		{"songpic/3f2a-cover.png", false},
		{"songs/3f2a-track.mp3", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsPlaceholder(tt.ref); got != tt.want {
			t.Errorf("IsPlaceholder(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}
