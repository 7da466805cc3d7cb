package borelog

import (
	"math"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/enums"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
)

// ExtractRulings extracts straight ruling lines from the page's vector path
// objects. Page borders and frames spanning the whole page are filtered out;
// they separate nothing inside a description region.
func ExtractRulings(instance pdfium.Pdfium, page references.FPDF_PAGE, pageWidth, pageHeight float64) ([]GeometricLine, error) {
	countResp, err := instance.FPDFPage_CountObjects(&requests.FPDFPage_CountObjects{
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return nil, err
	}

	var rulings []GeometricLine
	for i := 0; i < countResp.Count; i++ {
		objResp, err := instance.FPDFPage_GetObject(&requests.FPDFPage_GetObject{
			Page:  requests.Page{ByReference: &page},
			Index: i,
		})
		if err != nil {
			continue
		}
		typeResp, err := instance.FPDFPageObj_GetType(&requests.FPDFPageObj_GetType{
			PageObject: objResp.PageObject,
		})
		if err != nil || typeResp.Type != enums.FPDF_PAGEOBJ_PATH {
			continue
		}
		boundsResp, err := instance.FPDFPageObj_GetBounds(&requests.FPDFPageObj_GetBounds{
			PageObject: objResp.PageObject,
		})
		if err != nil {
			continue
		}
		segResp, err := instance.FPDFPath_CountSegments(&requests.FPDFPath_CountSegments{
			PageObject: objResp.PageObject,
		})
		if err != nil || segResp.Count < 2 {
			continue
		}

		x0 := float64(boundsResp.Left)
		y0 := pageHeight - float64(boundsResp.Top)
		x1 := float64(boundsResp.Right)
		y1 := pageHeight - float64(boundsResp.Bottom)

		if segResp.Count == 2 {
			if line, ok := boundsToRuling(x0, y0, x1, y1); ok && !isPageFrame(line, pageWidth, pageHeight) {
				rulings = append(rulings, line)
			}
			continue
		}
		// Rectangles and longer paths contribute their horizontal edges;
		// table grids in borehole logs are usually drawn as thin rects.
		for _, line := range []GeometricLine{
			{Start: Point{X: x0, Y: y0}, End: Point{X: x1, Y: y0}},
			{Start: Point{X: x0, Y: y1}, End: Point{X: x1, Y: y1}},
		} {
			if !isPageFrame(line, pageWidth, pageHeight) {
				rulings = append(rulings, line)
			}
		}
	}
	return rulings, nil
}

// boundsToRuling converts a two-segment path's bounds into a ruling when it
// is close to horizontal or vertical.
func boundsToRuling(x0, y0, x1, y1 float64) (GeometricLine, bool) {
	width := x1 - x0
	height := y1 - y0
	if height < 2 && width > 1 {
		mid := (y0 + y1) / 2
		return GeometricLine{Start: Point{X: x0, Y: mid}, End: Point{X: x1, Y: mid}}, true
	}
	if width < 2 && height > 1 {
		mid := (x0 + x1) / 2
		return GeometricLine{Start: Point{X: mid, Y: y0}, End: Point{X: mid, Y: y1}}, true
	}
	return GeometricLine{}, false
}

// isPageFrame reports whether a ruling is a page or content-frame border.
func isPageFrame(line GeometricLine, pageWidth, pageHeight float64) bool {
	const borderTolerance = 20.0
	const fullSpanThreshold = 0.9

	if line.isHorizontal() {
		y := (line.Start.Y + line.End.Y) / 2
		if y < borderTolerance || y > pageHeight-borderTolerance {
			return true
		}
		return math.Abs(line.End.X-line.Start.X) > pageWidth*fullSpanThreshold
	}
	x := (line.Start.X + line.End.X) / 2
	if x < borderTolerance || x > pageWidth-borderTolerance {
		return true
	}
	return math.Abs(line.End.Y-line.Start.Y) > pageHeight*fullSpanThreshold
}
