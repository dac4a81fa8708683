package export

import (
	"fmt"
	"io"

	"github.com/jung-kurt/gofpdf"

	"github.com/calvinalkan/taskcal/internal/view"
)

// A4 landscape, millimetres.
const (
	pageW    = 297.0
	pageH    = 210.0
	margin   = 10.0
	titleH   = 10.0
	headerH  = 7.0
	lineH    = 3.6
	dayLineH = 5.0
	padX     = 1.2
)

// writePDF draws the month grid on one page. The core PDF fonts only cover
// Windows-1252, so labels are English and task text is transliterated.
func writePDF(w io.Writer, g view.Grid) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetTitle("taskcal "+g.Cursor.String(), true)
	pdf.SetCreator("tc", true)
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	loc := view.English()

	cellW := (pageW - 2*margin) / view.GridDays
	cellH := (pageH - 2*margin - titleH - headerH) / view.GridWeeks

	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, titleH, loc.MonthTitle(g.Cursor.Year, g.Cursor.Month), "", 1, "L", false, 0, "")

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)

	for _, name := range loc.Weekdays {
		pdf.CellFormat(cellW, headerH, name, "1", 0, "C", true, 0, "")
	}

	top := margin + titleH + headerH
	maxLines := int((cellH - dayLineH) / lineH)

	for i, cell := range g.Cells {
		x := margin + float64(i%view.GridDays)*cellW
		y := top + float64(i/view.GridDays)*cellH

		if cell.Today {
			pdf.SetFillColor(255, 247, 204)
			pdf.Rect(x, y, cellW, cellH, "FD")
		} else {
			pdf.Rect(x, y, cellW, cellH, "D")
		}

		gray := 0
		if cell.OtherMonth {
			gray = 150
		}

		pdf.SetTextColor(gray, gray, gray)
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetXY(x+padX, y+0.5)
		pdf.CellFormat(cellW-2*padX, dayLineH, fmt.Sprint(cell.Day), "", 0, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 7)

		shown := cell.Tasks
		overflow := 0

		if len(shown) > maxLines {
			shown = shown[:max(maxLines-1, 0)]
			overflow = len(cell.Tasks) - len(shown)
		}

		ty := y + dayLineH

		for _, t := range shown {
			mark := "o "
			if t.Completed {
				mark = "x "
				pdf.SetTextColor(140, 140, 140)
			} else {
				pdf.SetTextColor(gray, gray, gray)
			}

			pdf.SetXY(x+padX, ty)
			pdf.CellFormat(cellW-2*padX, lineH, clip(pdf, tr(mark+t.Text), cellW-2*padX), "", 0, "L", false, 0, "")

			ty += lineH
		}

		if overflow > 0 {
			pdf.SetTextColor(gray, gray, gray)
			pdf.SetXY(x+padX, ty)
			pdf.CellFormat(cellW-2*padX, lineH, fmt.Sprintf("+%d more", overflow), "", 0, "L", false, 0, "")
		}
	}

	err := pdf.Output(w)
	if err != nil {
		return fmt.Errorf("export pdf: %w", err)
	}

	return nil
}

// clip shortens s until it fits width at the current font.
func clip(pdf *gofpdf.Fpdf, s string, width float64) string {
	if pdf.GetStringWidth(s) <= width {
		return s
	}

	b := []byte(s)
	for len(b) > 0 && pdf.GetStringWidth(string(b)+"...") > width {
		b = b[:len(b)-1]
	}

	return string(b) + "..."
}
