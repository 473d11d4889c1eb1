package store

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Bucket is one of the two artifact directories ("fotos", "presensies").
// Artifacts live outside the table and are referenced from it by filename.
type Bucket struct {
	dir string
}

// NewBucket opens (creating if needed) an artifact directory.
func NewBucket(dir string) (Bucket, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return Bucket{}, fmt.Errorf("create artifact bucket: %w", err)
	}
	return Bucket{dir: dir}, nil
}

// Save stores the artifact under a collision-resistant name derived from
// the upload time and a uuid fragment, keeping the original extension.
// Multiple submissions on the same calendar date never collide.
func (b Bucket) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := fmt.Sprintf("%s_%s%s",
		time.Now().UTC().Format("20060102T150405"),
		uuid.NewString()[:8],
		ext,
	)

	f, err := os.Create(filepath.Join(b.dir, name))
	if err != nil {
		return "", fmt.Errorf("save artifact: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("save artifact: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("save artifact: %w", err)
	}
	return name, nil
}

// Remove deletes an artifact by name. A missing file is not an error: the
// cascade from record deletion must tolerate artifacts that are already
// gone.
func (b Bucket) Remove(name string) error {
	if name == "" {
		return nil
	}
	err := os.Remove(b.Path(name))
	if errors.Is(err, fs.ErrNotExist) {
		log.Printf("Artifact already missing, skipping: %s", name)
		return nil
	}
	return err
}

// Path resolves an artifact ref to its on-disk path. Legacy table rows hold
// bucket-prefixed paths ("fotos/x.png"); only the base name is used.
func (b Bucket) Path(name string) string {
	return filepath.Join(b.dir, filepath.Base(name))
}
