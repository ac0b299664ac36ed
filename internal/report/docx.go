package report

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	docx "github.com/fumiama/go-docx"
)

const (
	defaultFont      = "Times New Roman"
	titleHalfPoints  = 28
	bodyHalfPoints   = 24
	headerShadeColor = "CCCCCC"
)

// DocxRenderer writes Office Open XML (.docx) documents.
type DocxRenderer struct{}

// NewDocxRenderer constructs a renderer.
func NewDocxRenderer() *DocxRenderer {
	return &DocxRenderer{}
}

// Render builds a .docx package holding the title, the summary lines and the table.
func (r *DocxRenderer) Render(doc Document) ([]byte, error) {
	w := docx.New().WithDefaultTheme()

	styled(w.AddParagraph().Justification("center").AddText(doc.Title), titleHalfPoints).Bold()

	if len(doc.Summary) > 0 {
		styled(w.AddParagraph().AddText(strings.Join(doc.Summary, "\n")), bodyHalfPoints)
	}

	if len(doc.Table.Header) > 0 {
		writeTable(w, doc.Table)
	}

	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write docx: %w", err)
	}
	return buf.Bytes(), nil
}

func writeTable(w *docx.Docx, t Table) {
	cols := len(t.Header)
	tbl := w.AddTable(len(t.Rows)+1, cols, 0, nil)

	for i, cell := range tbl.TableRows[0].TableCells {
		cell.Shade("clear", "auto", headerShadeColor)
		styled(cell.AddParagraph().Justification("center").AddText(t.Header[i]), bodyHalfPoints).Bold()
	}

	for r, row := range t.Rows {
		cells := tbl.TableRows[r+1].TableCells
		for c := 0; c < cols; c++ {
			var text string
			if c < len(row) {
				text = row[c]
			}
			styled(cells[c].AddParagraph().AddText(text), bodyHalfPoints)
		}
	}
}

func styled(run *docx.Run, halfPoints int) *docx.Run {
	return run.Size(strconv.Itoa(halfPoints)).Font(defaultFont, defaultFont, defaultFont, "")
}
