package report

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	docx "github.com/fumiama/go-docx"

	"github.com/arnoldtRealph/intervensie/app/models"
)

// Meta carries the document header inputs and the artifact resolution
// roots. GeneratedAt is supplied by the caller so repeated renders of the
// same view are identical.
type Meta struct {
	Title       string
	FilterDesc  string
	GeneratedAt time.Time
	PhotoDir    string
	SheetDir    string
}

// BuildDocument renders the filtered view as a Word document: header,
// summary block, then one detail block per record in input order. Artifact
// problems become inline warning lines and never abort the render. Zero
// records produce a single "no data" line instead of the summary and
// detail blocks.
func BuildDocument(records []models.Session, meta Meta) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	heading(w, meta.Title, "32")
	heading(w, "Intervensie Klasse - Verslag", "28")
	w.AddParagraph().AddText("Datum van genereer: " + meta.GeneratedAt.Format("2006-01-02 15:04"))
	w.AddParagraph().AddText("Periode filter: " + meta.FilterDesc)
	w.AddParagraph()

	if len(records) == 0 {
		w.AddParagraph().AddText("Geen data vir die gekose filters nie.")
		return writeOut(w)
	}

	sum := Summarize(records)
	heading(w, "Opsomming", "28")
	w.AddParagraph().AddText(fmt.Sprintf("Totaal Sessies: %d", sum.Sessions))
	w.AddParagraph().AddText(fmt.Sprintf("Totaal Genooi: %d", sum.Invited))
	w.AddParagraph().AddText(fmt.Sprintf("Totaal Opgedaag: %d", sum.Attended))
	w.AddParagraph().AddText(fmt.Sprintf("Gem. Opkoms %%: %.2f%%", sum.MeanRatio))
	w.AddParagraph().AddText("Periode: " + meta.FilterDesc)
	w.AddParagraph()

	heading(w, "Besonderhede", "28")
	for i := range records {
		writeDetail(w, &records[i], meta)
	}

	heading(w, "Gevolgtrekking", "28")
	w.AddParagraph().AddText(fmt.Sprintf("Gemiddelde opkoms vir hierdie periode: %.2f%%.", sum.MeanRatio))
	w.AddParagraph().AddText("Gebruik hierdie verslag om intervensies te beplan en te verbeter.")

	return writeOut(w)
}

func writeDetail(w *docx.Docx, rec *models.Session, meta Meta) {
	w.AddParagraph().AddText("Datum: " + rec.DateLabel())
	if rec.Grade != "" {
		w.AddParagraph().AddText("Graad: " + rec.Grade)
	}
	w.AddParagraph().AddText("Vak: " + rec.Subject)
	w.AddParagraph().AddText("Tema: " + rec.Theme)
	if rec.StartTime != "" || rec.EndTime != "" {
		w.AddParagraph().AddText(fmt.Sprintf("Tyd: %s - %s", rec.StartTime, rec.EndTime))
	}
	w.AddParagraph().AddText(fmt.Sprintf("Totaal Genooi: %d", rec.Invited))
	w.AddParagraph().AddText(fmt.Sprintf("Totaal Opgedaag: %d", rec.Attended))
	w.AddParagraph().AddText("Opvoeder: " + rec.Facilitator)
	w.AddParagraph().AddText(fmt.Sprintf("Opkoms %%: %.2f%%", rec.Ratio()))

	writePhoto(w, rec, meta)
	writeSheets(w, rec, meta)

	w.AddParagraph().AddText("---------------------------")
}

func writePhoto(w *docx.Docx, rec *models.Session, meta Meta) {
	if rec.PhotoRef == "" {
		w.AddParagraph().AddText("Geen foto aangeheg nie")
		return
	}
	path := filepath.Join(meta.PhotoDir, filepath.Base(rec.PhotoRef))
	if _, err := os.Stat(path); err != nil {
		w.AddParagraph().AddText("Geen foto aangeheg nie")
		return
	}
	w.AddParagraph().AddText("Foto:")
	if _, err := w.AddParagraph().AddInlineDrawingFrom(path); err != nil {
		warn(w, "Kon nie foto invoeg nie", rec.PhotoRef, err)
	}
}

func writeSheets(w *docx.Docx, rec *models.Session, meta Meta) {
	if len(rec.SheetRefs) == 0 {
		w.AddParagraph().AddText("Presensielys: Geen opgelaaide lêer")
		return
	}
	for _, ref := range rec.SheetRefs {
		name := filepath.Base(ref)
		path := filepath.Join(meta.SheetDir, name)

		switch KindOf(name) {
		case SheetImage:
			w.AddParagraph().AddText("Presensielys (beeld):")
			if _, err := w.AddParagraph().AddInlineDrawingFrom(path); err != nil {
				warn(w, "Kon nie presensielys invoeg nie", name, err)
			}
		case SheetCSV, SheetXLSX:
			rows, truncated, err := ReadSheetRows(path)
			if err != nil {
				warn(w, "Kon nie presensielys lees nie", name, err)
				continue
			}
			w.AddParagraph().AddText("Presensielys (tabel): " + name)
			for _, row := range rows {
				w.AddParagraph().AddText(strings.Join(row, " | "))
			}
			if truncated {
				w.AddParagraph().AddText(fmt.Sprintf("(afgekap: slegs die eerste %d rye word gewys)", maxSheetRows))
			}
		default:
			w.AddParagraph().AddText("Presensielys lêer: " + name)
		}
	}
}

func heading(w *docx.Docx, text, size string) {
	w.AddParagraph().AddText(text).Size(size)
}

func warn(w *docx.Docx, msg, name string, err error) {
	w.AddParagraph().AddText(fmt.Sprintf("(%s: %s: %v)", msg, name, err))
}

func writeOut(w *docx.Docx) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
