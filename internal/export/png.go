package export

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"strings"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Page geometry in points (A4). Pages are rasterized at pageScale pixels per point.
const (
	pageWidth    = 595.0
	pageHeight   = 842.0
	pageScale    = 2.0
	headerHeight = 50.0
	bodyTop      = 86.0
	footerHeight = 40.0
	lineHeight   = 14.0
	marginX      = 20.0

	bodySize  = 9.0
	titleSize = 12.0
)

// PNGLinesPerPage is the body height of a rendered page, in lines.
const PNGLinesPerPage = 51

var (
	primaryDark  = color.RGBA{30, 58, 138, 255}
	primaryLight = color.RGBA{6, 182, 212, 255}
	textDark     = color.RGBA{30, 41, 59, 255}
	textGray     = color.RGBA{100, 116, 139, 255}
	rowShade     = color.RGBA{250, 250, 250, 255}
)

var (
	fontsOnce   sync.Once
	regularFont *truetype.Font
	boldFont    *truetype.Font
	fontsErr    error
)

func loadFonts() (*truetype.Font, *truetype.Font, error) {
	fontsOnce.Do(func() {
		regularFont, fontsErr = truetype.Parse(goregular.TTF)
		if fontsErr != nil {
			fontsErr = fmt.Errorf("parse regular font: %w", fontsErr)
			return
		}
		boldFont, fontsErr = truetype.Parse(gobold.TTF)
		if fontsErr != nil {
			fontsErr = fmt.Errorf("parse bold font: %w", fontsErr)
		}
	})
	return regularFont, boldFont, fontsErr
}

// pageFaces holds the faces of one page render. Faces cache glyphs and are
// not safe for concurrent use, so each render builds its own.
type pageFaces struct {
	regular font.Face
	bold    font.Face
	title   font.Face
}

func newPageFaces() (pageFaces, error) {
	regular, bold, err := loadFonts()
	if err != nil {
		return pageFaces{}, err
	}
	return pageFaces{
		regular: newFace(regular, bodySize),
		bold:    newFace(bold, bodySize),
		title:   newFace(bold, titleSize),
	}, nil
}

func newFace(f *truetype.Font, size float64) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// PageCount reports how many PNG pages the document needs.
func PageCount(doc Document) int {
	return len(Paginate(doc.Lines, PNGLinesPerPage))
}

// RenderPages rasterizes every page of the document.
func RenderPages(doc Document) ([]image.Image, error) {
	faces, err := newPageFaces()
	if err != nil {
		return nil, err
	}

	pages := Paginate(doc.Lines, PNGLinesPerPage)
	images := make([]image.Image, 0, len(pages))
	for i, page := range pages {
		images = append(images, renderPage(doc, faces, page, i+1, len(pages)))
	}
	return images, nil
}

// WritePNG encodes page n (1-based) of the document.
func WritePNG(w io.Writer, doc Document, n int) error {
	images, err := RenderPages(doc)
	if err != nil {
		return err
	}
	if n < 1 || n > len(images) {
		return fmt.Errorf("page %d out of range 1..%d", n, len(images))
	}

	return gg.NewContextForImage(images[n-1]).EncodePNG(w)
}

func renderPage(doc Document, faces pageFaces, lines []Line, n, total int) image.Image {
	dc := gg.NewContext(int(pageWidth*pageScale), int(pageHeight*pageScale))
	dc.Scale(pageScale, pageScale)

	dc.SetColor(color.White)
	dc.Clear()

	drawHeader(dc, faces, doc)

	y := bodyTop
	costRow := 0
	for _, l := range lines {
		if l.Style == StyleCost {
			if costRow%2 == 0 {
				dc.SetColor(rowShade)
				dc.DrawRectangle(marginX-5, y-10, pageWidth-2*(marginX-5), lineHeight)
				dc.Fill()
			}
			costRow++
		}
		drawLine(dc, faces, l, y)
		y += lineHeight
	}

	drawFooter(dc, faces, doc, n, total)
	return dc.Image()
}

func drawHeader(dc *gg.Context, faces pageFaces, doc Document) {
	dc.SetColor(primaryDark)
	dc.DrawRectangle(0, 0, pageWidth/2, headerHeight)
	dc.Fill()
	dc.SetColor(primaryLight)
	dc.DrawRectangle(pageWidth/2, 0, pageWidth/2, headerHeight)
	dc.Fill()

	dc.SetColor(color.White)
	dc.SetFontFace(faces.title)
	dc.DrawString(doc.Brand.Name, marginX, 30)
	dc.SetFontFace(faces.regular)
	dc.DrawStringAnchored(doc.Brand.Email, pageWidth-marginX, 18, 1, 0)
	dc.DrawStringAnchored(doc.Brand.Website, pageWidth-marginX, 30, 1, 0)
	dc.DrawStringAnchored("Fecha: "+FormatDate(doc.Date), pageWidth-marginX, 42, 1, 0)

	dc.SetColor(primaryDark)
	dc.SetFontFace(faces.title)
	dc.DrawString(doc.Title, marginX, 66)
	dc.SetColor(textGray)
	dc.SetFontFace(faces.regular)
	dc.DrawString(doc.Brand.Tagline, marginX, 78)
}

func drawLine(dc *gg.Context, faces pageFaces, l Line, y float64) {
	right := pageWidth - marginX
	dc.SetFontFace(faces.regular)
	switch l.Style {
	case StyleHeading:
		dc.SetColor(primaryDark)
		dc.SetFontFace(faces.bold)
		dc.DrawString(l.Label, marginX, y)
	case StyleField:
		dc.SetColor(textGray)
		dc.DrawString(l.Label, marginX, y)
		dc.SetColor(textDark)
		dc.DrawString(l.Value, marginX+150, y)
	case StyleBullet:
		dc.SetColor(textDark)
		dc.DrawString("• "+l.Label, marginX+5, y)
	case StyleCost, StyleSummary:
		dc.SetColor(textDark)
		dc.DrawString(l.Label, marginX, y)
		dc.DrawStringAnchored(l.Value, right, y, 1, 0)
	case StyleTotal:
		dc.SetColor(primaryDark)
		dc.DrawRoundedRectangle(marginX-5, y-11, pageWidth-2*(marginX-5), lineHeight+2, 2)
		dc.Fill()
		dc.SetColor(color.White)
		dc.SetFontFace(faces.bold)
		dc.DrawString(l.Label, marginX, y)
		dc.DrawStringAnchored(l.Value, right, y, 1, 0)
	case StyleUnitPrice:
		dc.SetColor(textGray)
		dc.DrawStringAnchored(l.Label+" "+l.Value, right, y, 1, 0)
	case StyleNote:
		dc.SetColor(textGray)
		dc.DrawString("• "+l.Label, marginX, y)
	}
}

func drawFooter(dc *gg.Context, faces pageFaces, doc Document, n, total int) {
	y := pageHeight - footerHeight
	dc.SetColor(primaryLight)
	dc.SetLineWidth(0.5)
	dc.DrawLine(marginX, y, pageWidth-marginX, y)
	dc.Stroke()

	dc.SetColor(primaryDark)
	dc.SetFontFace(faces.bold)
	name := strings.TrimSpace(doc.Brand.ShortName + " Print")
	dc.DrawStringAnchored(name, pageWidth/2, pageHeight-22, 0.5, 0)
	dc.SetFontFace(faces.regular)
	dc.DrawStringAnchored(doc.Brand.Email+" | "+doc.Brand.Website, pageWidth/2, pageHeight-10, 0.5, 0)
	if total > 1 {
		dc.SetColor(textGray)
		dc.DrawStringAnchored(fmt.Sprintf("%d/%d", n, total), pageWidth-marginX, pageHeight-10, 1, 0)
	}
}
