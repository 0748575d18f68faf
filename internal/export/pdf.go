package export

import (
	"bytes"
	"fmt"
	"io"

	"github.com/go-pdf/fpdf"
	"github.com/skip2/go-qrcode"
)

const (
	pageWidth   = 210.0
	marginLeft  = 20.0
	marginRight = 20.0
	qrSize      = 36.0
	labelWidth  = 55.0
	rowHeight   = 7.0
)

// WritePDF renders doc as a one-page A4 quote. When shareURL is set a QR code
// linking to it is printed in the top-right corner.
func WritePDF(w io.Writer, doc Document, shareURL string) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginLeft, 20, marginRight)
	pdf.SetTitle("3D Printing Quote "+doc.QuoteID, true)
	pdf.AddPage()

	tr := pdf.UnicodeTranslatorFromDescriptor("")
	contentW := pageWidth - marginLeft - marginRight

	if shareURL != "" {
		if err := drawQRCode(pdf, shareURL); err != nil {
			return err
		}
		contentW -= qrSize + 5
	}

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(contentW, 10, "3D PRINTING QUOTE", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 5, tr("Quote ID: "+doc.QuoteID), "", 1, "L", false, 0, "")
	pdf.CellFormat(contentW, 5, "Date: "+doc.Date.Format(dateLayout), "", 1, "L", false, 0, "")
	if shareURL != "" {
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(contentW, 5, tr(shareURL), "", 1, "L", false, 0, shareURL)
	}

	// Keep sections below the QR code.
	if y := 20 + qrSize + 4; shareURL != "" && pdf.GetY() < y {
		pdf.SetY(y)
	}

	fullW := pageWidth - marginLeft - marginRight
	section(pdf, tr, "PROJECT DETAILS", doc.projectLines(), fullW)
	section(pdf, tr, "COST BREAKDOWN", doc.costLines(), fullW)

	pdf.Ln(2)
	totals := doc.totalLines()
	for i, l := range totals {
		style := ""
		if i == len(totals)-1 {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 11)
		pdf.CellFormat(labelWidth, rowHeight, l.label, "T", 0, "L", false, 0, "")
		pdf.CellFormat(fullW-labelWidth, rowHeight, l.value, "T", 1, "R", false, 0, "")
	}

	if risk := doc.riskLines(); len(risk) > 0 {
		section(pdf, tr, "AI RISK ASSESSMENT", risk, fullW)
		if reasons := doc.Insights.FailureReasons; len(reasons) > 0 {
			pdf.SetFont("Helvetica", "", 9)
			for _, r := range reasons {
				pdf.MultiCell(fullW, 5, tr("- "+r), "", "L", false)
			}
		}
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("render quote pdf: %w", err)
	}
	return nil
}

func section(pdf *fpdf.Fpdf, tr func(string) string, title string, lines []line, width float64) {
	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(width, 8, title, "B", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, l := range lines {
		pdf.CellFormat(labelWidth, rowHeight, tr(l.label), "", 0, "L", false, 0, "")
		pdf.CellFormat(width-labelWidth, rowHeight, tr(l.value), "", 1, "R", false, 0, "")
	}
}

func drawQRCode(pdf *fpdf.Fpdf, data string) error {
	png, err := qrcode.Encode(data, qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("generate share qr code: %w", err)
	}

	const imgName = "share-qr"
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(png))
	x := pageWidth - marginRight - qrSize
	pdf.ImageOptions(imgName, x, 20, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, data)
	return nil
}
