package catalog

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Media kinds map to the subdirectories of the media root.
const (
	KindSong      = "songs"
	KindAlbumArt  = "songpic"
	KindArtistArt = "artistpic"
)

// Placeholder references used when an upload has no artwork. They are shared
// between songs and must never be deleted.
const (
	DefaultAlbumArt  = "songpic/default.png"
	DefaultArtistArt = "artistpic/default.png"

	placeholderName = "default.png"
)

// MediaStore stores uploaded media on disk under a fixed root, one
// subdirectory per kind. Stored names are uuid-prefixed so two uploads with
// the same original filename cannot clobber each other.
type MediaStore struct {
	root string
}

// NewMediaStore creates the store and its subdirectories.
func NewMediaStore(root string) (*MediaStore, error) {
	for _, kind := range []string{KindSong, KindAlbumArt, KindArtistArt} {
		if err := os.MkdirAll(filepath.Join(root, kind), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create media directory %s: %w", kind, err)
		}
	}
	return &MediaStore{root: root}, nil
}

// Save writes the reader's content under the given kind and returns the
// relative reference to store on the song row.
func (m *MediaStore) Save(kind, originalName string, r io.Reader) (string, error) {
	name := uuid.NewString() + "-" + filepath.Base(originalName)
	ref := kind + "/" + name

	f, err := os.Create(filepath.Join(m.root, kind, name))
	if err != nil {
		return "", fmt.Errorf("failed to create media file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write media file: %w", err)
	}
	return ref, nil
}

// Remove deletes the file behind a reference. Placeholder references and
// empty references are skipped; a file that is already gone is not an error.
func (m *MediaStore) Remove(ref string) error {
	if ref == "" || IsPlaceholder(ref) {
		return nil
	}
	err := os.Remove(filepath.Join(m.root, filepath.FromSlash(ref)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove media file %s: %w", ref, err)
	}
	return nil
}

// IsPlaceholder reports whether a reference points at shared default artwork.
func IsPlaceholder(ref string) bool {
	return strings.Contains(ref, placeholderName)
}
