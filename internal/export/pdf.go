package export

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// templateColor represents an RGB color for one template.
type templateColor struct {
	R, G, B int
}

var templateColors = []templateColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	qrSize       = 40.0
)

// QRSummary is the payload of the summary page QR code.
type QRSummary struct {
	CollectionID string         `json:"collection"`
	Name         string         `json:"name"`
	Placed       int            `json:"placed"`
	Templates    map[string]int `json:"templates"`
}

// Summary builds the QR payload for a report.
func (r Report) Summary() QRSummary {
	s := QRSummary{
		CollectionID: r.CollectionID,
		Name:         r.CollectionName,
		Placed:       len(r.Placements),
		Templates:    map[string]int{},
	}
	for _, c := range CountByTemplate(r.Placements) {
		s.Templates[c.Template] = c.Count
	}
	return s
}

// ExportPDF writes a top-down plan of the placements followed by a summary
// page with statistics and a QR code of the summary.
func ExportPDF(path string, report Report) error {
	if len(report.Placements) == 0 {
		return fmt.Errorf("no placements to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	renderPlanPage(pdf, report)

	pdf.AddPage()
	if err := renderSummaryPage(pdf, report); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

// renderPlanPage draws every placement as a dot on the X/Z plane, sized by
// its scale and coloured by template.
func renderPlanPage(pdf *fpdf.Fpdf, report Report) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s: %d instances", report.CollectionName, len(report.Placements))
	if report.Scene != "" {
		title += " on " + report.Scene
	}
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	minX, minZ, maxX, maxZ := bounds(report.Placements)
	// Pad so single points and straight rows still get an area.
	pad := math.Max(1, 0.05*math.Max(maxX-minX, maxZ-minZ))
	minX, minZ, maxX, maxZ = minX-pad, minZ-pad, maxX+pad, maxZ+pad
	spanX, spanZ := maxX-minX, maxZ-minZ

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	extent := fmt.Sprintf("X %.1f .. %.1f | Z %.1f .. %.1f", minX, maxX, minZ, maxZ)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, extent, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	scale := math.Min(drawWidth/spanX, drawHeight/spanZ)
	canvasW, canvasH := spanX*scale, spanZ*scale
	offsetX := marginLeft + (drawWidth-canvasW)/2
	offsetY := drawAreaTop

	pdf.SetFillColor(235, 240, 225)
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(offsetX, offsetY, canvasW, canvasH, "FD")

	colors := colorIndex(report.Placements)
	pdf.SetLineWidth(0.2)
	for _, p := range report.Placements {
		col := colors[p.Template]
		// +Z points up the page
		px := offsetX + (float64(p.Position.X)-minX)*scale
		py := offsetY + (maxZ-float64(p.Position.Z))*scale
		r := math.Max(0.6, math.Min(4, float64(p.Scale)*scale/2))

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.SetDrawColor(30, 30, 30)
		pdf.Circle(px, py, r, "FD")

		// heading tick
		rad := float64(p.Yaw) * math.Pi / 180
		pdf.Line(px, py, px+math.Sin(rad)*r*1.6, py-math.Cos(rad)*r*1.6)
	}

	drawLegend(pdf, report.Placements, offsetY+canvasH+5)
}

// colorIndex assigns template colours in order of first appearance.
func colorIndex(placements []PlacementInfo) map[string]templateColor {
	out := map[string]templateColor{}
	for _, p := range placements {
		if _, ok := out[p.Template]; !ok {
			out[p.Template] = templateColors[len(out)%len(templateColors)]
		}
	}
	return out
}

// drawLegend renders a compact legend of templates at the bottom of the plan.
func drawLegend(pdf *fpdf.Fpdf, placements []PlacementInfo, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Templates:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight
	colors := colorIndex(placements)

	for _, c := range CountByTemplate(placements) {
		col := colors[c.Template]
		label := fmt.Sprintf("%s (%d)", c.Name, c.Count)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(col.R, col.G, col.B)
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

// renderSummaryPage draws the run statistics, a per-template table and the
// summary QR code.
func renderSummaryPage(pdf *fpdf.Fpdf, report Report) error {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Painting Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Statistics", "", 0, "L", false, 0, "")
	y += 9

	st := report.Stats
	items := []struct {
		label string
		value string
	}{
		{"Collection", report.CollectionName},
		{"Instances", fmt.Sprintf("%d", len(report.Placements))},
		{"Attempts", fmt.Sprintf("%d", st.Attempts)},
		{"Placed", fmt.Sprintf("%d", st.Placed)},
		{"Missed surface", fmt.Sprintf("%d", st.Misses)},
		{"Rejected", fmt.Sprintf("%d (spacing %d, overlap %d, slope %d, layer %d, tag %d)",
			st.Rejected(), st.RejectedSpacing, st.RejectedIntercollision, st.RejectedSlope, st.RejectedLayer, st.RejectedTag)},
		{"Removed", fmt.Sprintf("%d", st.Removed)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(45, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(140, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Templates", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{60, 60, 30}
	headers := []string{"Template", "Name", "Count"}
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	pdf.SetFont("Helvetica", "", 9)
	for i, c := range CountByTemplate(report.Placements) {
		if y > pageHeight-marginBottom-10 {
			break
		}
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		xPos = marginLeft
		for j, cell := range []string{c.Template, c.Name, fmt.Sprintf("%d", c.Count)} {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	qrData, err := json.Marshal(report.Summary())
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}
	qrPNG, err := qrcode.Encode(string(qrData), qrcode.Medium, 256)
	if err != nil {
		return fmt.Errorf("failed to generate QR code: %w", err)
	}
	pdf.RegisterImageOptionsReader("qr_summary", fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	qrX := pageWidth - marginRight - qrSize
	pdf.ImageOptions("qr_summary", qrX, marginTop+18, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by ScatterBrush", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)

	return nil
}
