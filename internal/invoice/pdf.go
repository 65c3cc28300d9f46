package invoice

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-pdf/fpdf"
)

// ErrRender indicates the PDF artifact could not be produced. The order
// itself remains valid and re-downloadable.
var ErrRender = errors.New("invoice: render failed")

const (
	pageMargin = 40.0
	bandHeight = 70.0
)

// header band and accent colour, matching the store theme.
var accent = struct{ r, g, b int }{74, 111, 220}

// RenderPDF encodes a Document as PDF bytes. The file's creation date is
// pinned to the order's creation time so repeated renders of the same order
// produce the same artifact.
func RenderPDF(doc Document) ([]byte, error) {
	pdf := fpdf.New("P", "pt", "A4", "")
	pdf.SetTitle(fmt.Sprintf("Invoice %s", doc.Number), true)
	pdf.SetAuthor(doc.Branding.Name, true)
	if !doc.CreatedAt.IsZero() {
		pdf.SetCreationDate(doc.CreatedAt)
		pdf.SetModificationDate(doc.CreatedAt)
	}
	pdf.SetMargins(pageMargin, pageMargin, pageMargin)
	pdf.AddPage()

	pageWidth, _ := pdf.GetPageSize()
	contentWidth := pageWidth - 2*pageMargin

	// Store band.
	pdf.SetFillColor(accent.r, accent.g, accent.b)
	pdf.Rect(pageMargin, pageMargin, contentWidth, bandHeight, "F")
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 22)
	pdf.SetXY(pageMargin, pageMargin+14)
	pdf.CellFormat(contentWidth, 26, doc.Branding.Name, "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(pageMargin)
	pdf.CellFormat(contentWidth, 14, doc.Branding.Tagline, "", 1, "C", false, 0, "")

	// Invoice header: number, date, status on the left; customer block on
	// the right.
	pdf.SetTextColor(accent.r, accent.g, accent.b)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.SetXY(pageMargin, pageMargin+bandHeight+20)
	pdf.CellFormat(contentWidth/2, 20, "INVOICE", "", 1, "L", false, 0, "")

	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Helvetica", "", 10)
	headerTop := pdf.GetY() + 6
	pdf.SetXY(pageMargin, headerTop)
	labelValue(pdf, "Invoice #:", doc.Number)
	labelValue(pdf, "Date:", doc.Date)
	statusBadge(pdf, "Status:", doc.Status)

	rightX := pageMargin + contentWidth/2
	pdf.SetXY(rightX, headerTop-20)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(contentWidth/2, 16, "Customer Details", "", 2, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(rightX)
	labelValue(pdf, "Name:", doc.Customer.Name)
	pdf.SetX(rightX)
	labelValue(pdf, "Email:", doc.Customer.Email)
	for _, line := range doc.Customer.AddressLines {
		pdf.SetX(rightX)
		pdf.CellFormat(contentWidth/2, 13, line, "", 2, "L", false, 0, "")
	}

	// Line-item table.
	pdf.SetY(pdf.GetY() + 28)
	pdf.SetX(pageMargin)
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(248, 249, 250)
	widths := []float64{
		contentWidth * 0.08,
		contentWidth * 0.40,
		contentWidth * 0.15,
		contentWidth * 0.18,
		contentWidth * 0.19,
	}
	headers := []string{"#", "Product", "Quantity", "Unit Price", "Total"}
	aligns := []string{"L", "L", "C", "R", "R"}
	for i, h := range headers {
		pdf.CellFormat(widths[i], 20, h, "B", 0, aligns[i], true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	if len(doc.Lines) == 0 {
		pdf.SetX(pageMargin)
		pdf.CellFormat(contentWidth, 20, "No items available", "B", 1, "C", false, 0, "")
	}
	for _, row := range doc.Lines {
		pdf.SetX(pageMargin)
		cells := []string{
			fmt.Sprintf("%d", row.Index),
			fmt.Sprintf("%s (%s)", row.Name, row.Category),
			row.Quantity,
			"$" + row.UnitPrice,
			"$" + row.LineTotal,
		}
		for i, cell := range cells {
			pdf.CellFormat(widths[i], 18, cell, "B", 0, aligns[i], false, 0, "")
		}
		pdf.Ln(-1)
	}

	// Payment block and totals block side by side.
	blockTop := pdf.GetY() + 24
	pdf.SetXY(pageMargin, blockTop)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetTextColor(accent.r, accent.g, accent.b)
	pdf.CellFormat(contentWidth/2, 16, "Payment Information", "", 2, "L", false, 0, "")
	pdf.SetTextColor(51, 51, 51)
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetX(pageMargin)
	labelValue(pdf, "Payment Method:", doc.Payment.Method)
	statusBadge(pdf, "Payment Status:", doc.Payment.Status)

	pdf.SetXY(rightX, blockTop)
	totals := []struct {
		label string
		value string
		bold  bool
	}{
		{"Items Total:", "$" + doc.Totals.ItemsTotal, false},
		{"Shipping:", "$" + doc.Totals.Shipping, false},
		{"Other Charges:", "$" + doc.Totals.Other, false},
		{"Total:", "$" + doc.Totals.Total, true},
	}
	for _, row := range totals {
		style := ""
		if row.bold {
			style = "B"
			pdf.SetTextColor(accent.r, accent.g, accent.b)
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.SetX(rightX)
		pdf.CellFormat(contentWidth/4, 16, row.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(contentWidth/4, 16, row.value, "", 1, "R", false, 0, "")
	}
	pdf.SetTextColor(51, 51, 51)

	// Footer.
	pdf.SetY(pdf.GetY() + 30)
	pdf.SetFont("Helvetica", "I", 9)
	pdf.SetTextColor(119, 119, 119)
	for _, line := range doc.Footer {
		pdf.SetX(pageMargin)
		pdf.CellFormat(contentWidth, 13, line, "", 1, "C", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRender, err)
	}
	return buf.Bytes(), nil
}

func labelValue(pdf *fpdf.Fpdf, label, value string) {
	x := pdf.GetX()
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 13, label, "", 0, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 13, value, "", 1, "L", false, 0, "")
	pdf.SetX(x)
}

func statusBadge(pdf *fpdf.Fpdf, label string, badge Badge) {
	x := pdf.GetX()
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(90, 13, label, "", 0, "L", false, 0, "")
	r, g, b := badge.Tone.RGB()
	pdf.SetFillColor(r, g, b)
	pdf.SetTextColor(255, 255, 255)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(70, 13, badge.Label, "", 1, "C", true, 0, "")
	pdf.SetTextColor(51, 51, 51)
	pdf.SetX(x)
}
