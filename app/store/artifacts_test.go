package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestBucketSaveNamesCollideNever(t *testing.T) {
	b, err := NewBucket(filepath.Join(t.TempDir(), "fotos"))
	if err != nil {
		t.Fatalf("bucket: %v", err)
	}

	// the same original name on the same day must yield distinct files
	n1, err := b.Save("klasfoto.JPG", strings.NewReader("one"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	n2, err := b.Save("klasfoto.JPG", strings.NewReader("two"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if n1 == n2 {
		t.Fatalf("colliding artifact names: %s", n1)
	}
	if !strings.HasSuffix(n1, ".jpg") {
		t.Fatalf("extension not kept (lowercased): %s", n1)
	}

	for _, n := range []string{n1, n2} {
		if _, err := os.Stat(b.Path(n)); err != nil {
			t.Fatalf("artifact %s not on disk: %v", n, err)
		}
	}
}

func TestBucketRemoveToleratesMissing(t *testing.T) {
	b, err := NewBucket(filepath.Join(t.TempDir(), "presensies"))
	if err != nil {
		t.Fatalf("bucket: %v", err)
	}
	if err := b.Remove("never_saved.csv"); err != nil {
		t.Fatalf("remove of missing artifact must not fail: %v", err)
	}
	if err := b.Remove(""); err != nil {
		t.Fatalf("remove of empty ref must not fail: %v", err)
	}

	n, err := b.Save("lys.csv", strings.NewReader("a,b\n"))
	if err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := b.Remove(n); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if _, err := os.Stat(b.Path(n)); err == nil {
		t.Fatalf("artifact still on disk after remove")
	}
}

func TestBucketPathUsesBaseName(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "fotos")
	b, err := NewBucket(dir)
	if err != nil {
		t.Fatalf("bucket: %v", err)
	}
	// legacy rows store bucket-prefixed refs
	if got := b.Path("fotos/ou_foto.png"); got != filepath.Join(dir, "ou_foto.png") {
		t.Fatalf("unexpected path %s", got)
	}
}
