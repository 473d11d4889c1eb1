package report

import (
	"archive/zip"
	"bytes"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arnoldtRealph/intervensie/app/models"
)

func docMeta(t *testing.T) Meta {
	t.Helper()
	dir := t.TempDir()
	return Meta{
		Title:       "Saul Damon High School",
		FilterDesc:  "Weekliks",
		GeneratedAt: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC),
		PhotoDir:    filepath.Join(dir, "fotos"),
		SheetDir:    filepath.Join(dir, "presensies"),
	}
}

// documentXML unzips the docx bytes and returns word/document.xml as text.
func documentXML(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open document.xml: %v", err)
		}
		defer rc.Close()
		b, err := io.ReadAll(rc)
		if err != nil {
			t.Fatalf("read document.xml: %v", err)
		}
		return string(b)
	}
	t.Fatalf("word/document.xml missing")
	return ""
}

func hasMedia(t *testing.T, data []byte) bool {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, "word/media/") {
			return true
		}
	}
	return false
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for x := 0; x < 8; x++ {
		for y := 0; y < 8; y++ {
			img.Set(x, y, color.RGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
}

func TestBuildDocumentEmpty(t *testing.T) {
	data, err := BuildDocument(nil, docMeta(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	xml := documentXML(t, data)
	if !strings.Contains(xml, "Geen data vir die gekose filters nie.") {
		t.Fatalf("no-data line missing")
	}
	for _, banned := range []string{"Opsomming", "Besonderhede", "Gevolgtrekking"} {
		if strings.Contains(xml, banned) {
			t.Fatalf("empty render must not contain %q", banned)
		}
	}
}

func TestBuildDocumentSummaryAndDetails(t *testing.T) {
	recs := []models.Session{
		{
			Date: time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC), Grade: "Graad 10",
			Subject: "Wiskunde", Theme: "Breuke", StartTime: "14:00", EndTime: "15:30",
			Invited: 10, Attended: 10, Facilitator: "Mnr. Arnoldt",
		},
		{
			Date:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Subject: "Fisika", Theme: "Krag",
			Invited: 40, Attended: 10, Facilitator: "Me. Daniels",
		},
	}
	data, err := BuildDocument(recs, docMeta(t))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	xml := documentXML(t, data)

	for _, want := range []string{
		"Saul Damon High School",
		"Datum van genereer: 2024-03-15 09:00",
		"Periode filter: Weekliks",
		"Opsomming",
		"Totaal Sessies: 2",
		"Totaal Genooi: 50",
		"Totaal Opgedaag: 20",
		"Gem. Opkoms %: 62.50%", // mean of ratios, not 40% ratio-of-sums
		"Besonderhede",
		"Vak: Wiskunde",
		"Tyd: 14:00 - 15:30",
		"Vak: Fisika",
		"Geen foto aangeheg nie",
		"Presensielys: Geen opgelaaide lêer",
		"Gevolgtrekking",
	} {
		if !strings.Contains(xml, want) {
			t.Fatalf("document missing %q", want)
		}
	}
}

func TestBuildDocumentEmbedsPhoto(t *testing.T) {
	meta := docMeta(t)
	writePNG(t, filepath.Join(meta.PhotoDir, "foto.png"))

	recs := []models.Session{{
		Date:    time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		Subject: "Wiskunde", Theme: "Breuke",
		Invited: 10, Attended: 8, Facilitator: "Mnr. Arnoldt",
		PhotoRef: "foto.png",
	}}
	data, err := BuildDocument(recs, meta)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(documentXML(t, data), "Foto:") {
		t.Fatalf("photo caption missing")
	}
	if !hasMedia(t, data) {
		t.Fatalf("no embedded media in document")
	}
}

func TestBuildDocumentSheetTruncation(t *testing.T) {
	meta := docMeta(t)
	if err := os.MkdirAll(meta.SheetDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	long := "Naam\n"
	for i := 0; i < 120; i++ {
		long += "Leerder\n"
	}
	if err := os.WriteFile(filepath.Join(meta.SheetDir, "lank.csv"), []byte(long), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	short := "Naam\nLeerder 1\nLeerder 2\n"
	if err := os.WriteFile(filepath.Join(meta.SheetDir, "kort.csv"), []byte(short), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	base := models.Session{
		Date:    time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
		Subject: "Wiskunde", Theme: "Breuke",
		Invited: 10, Attended: 8, Facilitator: "Mnr. Arnoldt",
	}

	long120 := base
	long120.SheetRefs = []string{"lank.csv"}
	data, err := BuildDocument([]models.Session{long120}, meta)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if !strings.Contains(documentXML(t, data), "afgekap") {
		t.Fatalf("truncation marker missing for 120-row sheet")
	}

	short10 := base
	short10.SheetRefs = []string{"kort.csv"}
	data, err = BuildDocument([]models.Session{short10}, meta)
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	xml := documentXML(t, data)
	if strings.Contains(xml, "afgekap") {
		t.Fatalf("unexpected truncation marker for short sheet")
	}
	if !strings.Contains(xml, "Leerder 2") {
		t.Fatalf("short sheet rows not inlined")
	}
}

func TestBuildDocumentWarnsOnBadArtifacts(t *testing.T) {
	meta := docMeta(t)
	if err := os.MkdirAll(meta.SheetDir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	recs := []models.Session{
		{
			Date:    time.Date(2024, 3, 14, 0, 0, 0, 0, time.UTC),
			Subject: "Wiskunde", Theme: "Breuke",
			Invited: 10, Attended: 8, Facilitator: "Mnr. Arnoldt",
			SheetRefs: []string{"bestaan_nie.csv", "verslag.pdf"},
		},
		{
			Date:    time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
			Subject: "Fisika", Theme: "Krag",
			Invited: 5, Attended: 5, Facilitator: "Me. Daniels",
		},
	}
	data, err := BuildDocument(recs, meta)
	if err != nil {
		t.Fatalf("render must not abort on artifact failures: %v", err)
	}
	xml := documentXML(t, data)
	if !strings.Contains(xml, "Kon nie presensielys lees nie") {
		t.Fatalf("missing inline warning for unreadable sheet")
	}
	if !strings.Contains(xml, "Presensielys lêer: verslag.pdf") {
		t.Fatalf("other-kind artifact must be referenced by filename")
	}
	// the render continued past the failure
	if !strings.Contains(xml, "Vak: Fisika") {
		t.Fatalf("records after a failing artifact were dropped")
	}
}
