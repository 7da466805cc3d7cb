package borelog

import (
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/klippa-app/go-pdfium"
	"github.com/klippa-app/go-pdfium/references"
	"github.com/klippa-app/go-pdfium/requests"
	"github.com/pkg/errors"
	xdraw "golang.org/x/image/draw"
)

var (
	overlayColumnColor = color.RGBA{G: 160, A: 255}
	overlayRegionColor = color.RGBA{R: 220, A: 255}
	overlayBlockColor  = color.RGBA{R: 255, G: 140, A: 255}
)

// RenderPageOverlay renders a page and strokes the detected depth columns,
// description regions and matched blocks onto it. Useful for inspecting why
// a page matched the way it did.
func RenderPageOverlay(instance pdfium.Pdfium, page references.FPDF_PAGE, pairs []ColumnPair, results []MatchResult, scale float64) (image.Image, error) {
	renderResp, err := instance.RenderPageInDPI(&requests.RenderPageInDPI{
		DPI:  72,
		Page: requests.Page{ByReference: &page},
	})
	if err != nil {
		return nil, errors.Wrap(err, "failed to render page")
	}
	rendered := renderResp.Result.Image
	ratio := renderResp.Result.PointToPixelRatio

	canvas := image.NewRGBA(rendered.Bounds())
	xdraw.Draw(canvas, canvas.Bounds(), rendered, rendered.Bounds().Min, xdraw.Src)

	for _, pair := range pairs {
		strokeRect(canvas, pair.Column.Rect(), ratio, overlayColumnColor)
		strokeRect(canvas, pair.Region, ratio, overlayRegionColor)
	}
	for _, result := range results {
		if result.Block.LineCount() > 0 {
			strokeRect(canvas, result.Block.Rect(), ratio, overlayBlockColor)
		}
	}

	if scale <= 1 {
		return canvas, nil
	}
	scaled := image.NewRGBA(image.Rect(0, 0,
		int(float64(canvas.Bounds().Dx())*scale),
		int(float64(canvas.Bounds().Dy())*scale)))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), canvas, canvas.Bounds(), xdraw.Src, nil)
	return scaled, nil
}

// WritePNG encodes an overlay image as PNG.
func WritePNG(w io.Writer, img image.Image) error {
	return errors.Wrap(png.Encode(w, img), "failed to encode overlay")
}

// strokeRect draws a one-pixel rectangle outline in page coordinates scaled
// by the render ratio.
func strokeRect(canvas *image.RGBA, r Rect, ratio float64, c color.RGBA) {
	x0 := int(r.X0 * ratio)
	y0 := int(r.Y0 * ratio)
	x1 := int(r.X1 * ratio)
	y1 := int(r.Y1 * ratio)
	for x := x0; x <= x1; x++ {
		setPixel(canvas, x, y0, c)
		setPixel(canvas, x, y1, c)
	}
	for y := y0; y <= y1; y++ {
		setPixel(canvas, x0, y, c)
		setPixel(canvas, x1, y, c)
	}
}

func setPixel(canvas *image.RGBA, x, y int, c color.RGBA) {
	if image.Pt(x, y).In(canvas.Bounds()) {
		canvas.SetRGBA(x, y, c)
	}
}
