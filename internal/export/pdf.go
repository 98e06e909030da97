package export

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
)

// column widths in mm on landscape A4 (277mm usable)
var widths = []float64{24, 16, 40, 30, 50, 20, 65, 32}

func WritePDF(w io.Writer, rep Report) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(rep.Title, true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, tr(rep.Title), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(245, 245, 245)
	for i, h := range header {
		pdf.CellFormat(widths[i], 8, tr(h), "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, r := range rep.Rows {
		for i, c := range cells(r) {
			pdf.CellFormat(widths[i], 7, tr(fit(pdf, c, widths[i])), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	var labelWidth float64
	for _, wd := range widths[:len(widths)-1] {
		labelWidth += wd
	}
	pdf.SetFont("Arial", "B", 9)
	pdf.CellFormat(labelWidth, 8, "Total :", "1", 0, "R", false, 0, "")
	pdf.CellFormat(widths[len(widths)-1], 8, fmt.Sprintf("%d DH", rep.Total), "1", 1, "L", false, 0, "")

	return pdf.Output(w)
}

// fit shortens s with an ellipsis so it stays inside a cell of width w.
func fit(pdf *gofpdf.Fpdf, s string, w float64) string {
	const padding = 2
	if pdf.GetStringWidth(s) <= w-padding {
		return s
	}
	runes := []rune(s)
	for len(runes) > 0 && pdf.GetStringWidth(string(runes)+"...") > w-padding {
		runes = runes[:len(runes)-1]
	}
	return string(runes) + "..."
}
