package export

import (
	"bytes"
	"image/color"
	"image/png"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/fogleman/gg"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"

	"github.com/Simplici0/prazis-quote/internal/catalog"
	"github.com/Simplici0/prazis-quote/internal/pricing"
)

var fixedNow = time.Date(2026, time.October, 15, 10, 30, 0, 0, time.UTC)

func quoteFor(t *testing.T, job pricing.JobParameters) (pricing.Result, *catalog.Catalog) {
	t.Helper()
	cat := catalog.Default()
	result, err := pricing.Calculate(job, cat)
	require.NoError(t, err)
	return result, cat
}

func referenceJob() pricing.JobParameters {
	return pricing.JobParameters{
		MaterialID:     "pla",
		WeightGrams:    50,
		PrintTimeHours: 2,
		Quantity:       1,
		QualityID:      "balanced",
		UsageType:      pricing.UsageDecorative,
	}
}

func findLine(doc Document, label string) (Line, bool) {
	return lo.Find(doc.Lines, func(l Line) bool { return l.Label == label })
}

func TestBuild_ReferenceQuote(t *testing.T) {
	result, cat := quoteFor(t, referenceJob())
	doc := Build(result, referenceJob(), cat, DefaultBrand, fixedNow)

	for label, want := range map[string]string{
		"Material":       "$18.03",
		"Electricidad":   "$1.05",
		"Uso de Máquina": "$13.38",
		"Mano de Obra":   "$70.00",
		"Subtotal":       "$102.45",
		"TOTAL:":         "$138.31 MXN",
	} {
		line, ok := findLine(doc, label)
		require.True(t, ok, "missing line %q", label)
		require.Equal(t, want, line.Value, label)
	}

	material, _ := findLine(doc, "Material:")
	require.Equal(t, "PLA", material.Value)
	quality, _ := findLine(doc, "Calidad:")
	require.Equal(t, "Balanced Quality", quality.Value)
	weight, _ := findLine(doc, "Peso Total:")
	require.Equal(t, "51.5g", weight.Value)

	_, ok := findLine(doc, "Proyecto:")
	require.False(t, ok, "client block must be omitted without metadata")
	_, ok = findLine(doc, "Precio unitario:")
	require.False(t, ok, "unit price only shown for several pieces")
	_, ok = findLine(doc, "Post-Procesamiento")
	require.False(t, ok)
}

func TestBuild_ClientBlockUnitPriceAndExtras(t *testing.T) {
	job := referenceJob()
	job.Quantity = 25
	job.HasLogo = true
	job.UsageType = pricing.UsageFunctional
	job.PostProcessing = []string{"sanding", "gold-plating"}
	job.ClientName = "Ana"
	result, cat := quoteFor(t, job)

	doc := Build(result, job, cat, DefaultBrand, fixedNow)

	client, ok := findLine(doc, "Cliente:")
	require.True(t, ok)
	require.Equal(t, "Ana", client.Value)
	_, ok = findLine(doc, "Proyecto:")
	require.False(t, ok)

	unit, ok := findLine(doc, "Precio unitario:")
	require.True(t, ok)
	require.Equal(t, UnitPrice(result.Total, 25)+" MXN", unit.Value)

	_, ok = findLine(doc, "Descuento por volumen (10%)")
	require.True(t, ok)
	_, ok = findLine(doc, "Recargo por uso funcional")
	require.True(t, ok)
	logo, ok := findLine(doc, "Logo/Personalización")
	require.True(t, ok)
	require.Equal(t, "$200.00", logo.Value)

	bullets := lo.Filter(doc.Lines, func(l Line, _ int) bool { return l.Style == StyleBullet })
	require.Len(t, bullets, 1)
	require.Equal(t, "Lijado", bullets[0].Label)
}

func TestMoneyAndPercent(t *testing.T) {
	require.Equal(t, "$0.00", Money(0))
	require.Equal(t, "$138.31", Money(138.3078564))
	require.Equal(t, "5", Percent(0.05))
	require.Equal(t, "35", Percent(0.35))
	require.Equal(t, "$3.33", UnitPrice(10, 3))
}

func TestFormattingNonFiniteValues(t *testing.T) {
	require.Equal(t, "N/A", Money(math.Inf(1)))
	require.Equal(t, "N/A", Money(math.NaN()))
	require.Equal(t, "N/A", Percent(math.Inf(-1)))
	require.Equal(t, "N/A", UnitPrice(math.Inf(1), 2))
	require.Equal(t, "N/A", UnitPrice(10, 0))
}

func TestFileName(t *testing.T) {
	require.Equal(t, "Cotizacion_Prazis_Soporte_GoPro_1_1792060200000.pdf",
		FileName(DefaultBrand, "Soporte GoPro#1", fixedNow, "pdf"))
	require.Equal(t, "Cotizacion_Prazis_Proyecto_1792060200000.png",
		FileName(DefaultBrand, "", fixedNow, "png"))
}

func TestFormatDate(t *testing.T) {
	require.Equal(t, "15 de octubre de 2026", FormatDate(fixedNow))
}

func TestPaginate(t *testing.T) {
	lines := []Line{
		{Style: StyleHeading, Label: "a"},
		{Style: StyleField, Label: "b"},
		{Style: StyleSpacer},
		{Style: StyleField, Label: "c"},
		{Style: StyleField, Label: "d"},
	}

	pages := Paginate(lines, 2)
	require.Len(t, pages, 2)
	require.Equal(t, "c", pages[1][0].Label, "spacer must not open a page")

	require.Len(t, Paginate(nil, 10), 1)
}

func TestWriteText(t *testing.T) {
	job := referenceJob()
	job.ProjectName = "Engrane"
	job.Quantity = 2
	result, cat := quoteFor(t, job)
	doc := Build(result, job, cat, DefaultBrand, fixedNow)

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, doc))

	body := buf.String()
	for _, want := range []string{
		"PRAZIS PRINT",
		"Fecha: 15 de octubre de 2026",
		"Proyecto:               Engrane",
		"DESGLOSE ECONÓMICO",
		"TOTAL:",
		"Precio unitario:",
		"Equipo utilizado: Bambu Lab H2D",
		"Validez de cotización: 15 días naturales",
	} {
		require.True(t, strings.Contains(body, want), "missing %q in:\n%s", want, body)
	}
	require.NotContains(t, body, "Página")
}

func TestWritePNG(t *testing.T) {
	result, cat := quoteFor(t, referenceJob())
	doc := Build(result, referenceJob(), cat, DefaultBrand, fixedNow)

	require.Equal(t, 1, PageCount(doc))

	var buf bytes.Buffer
	require.NoError(t, WritePNG(&buf, doc, 1))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	require.Equal(t, 1190, img.Bounds().Dx())
	require.Equal(t, 1684, img.Bounds().Dy())

	require.Error(t, WritePNG(&bytes.Buffer{}, doc, 2))
}

func TestRenderPagesSplitsLongDocuments(t *testing.T) {
	doc := Document{Brand: DefaultBrand, Date: fixedNow, Title: "COTIZACIÓN"}
	for i := 0; i < PNGLinesPerPage+3; i++ {
		doc.Lines = append(doc.Lines, Line{Style: StyleNote, Label: "nota"})
	}

	images, err := RenderPages(doc)
	require.NoError(t, err)
	require.Len(t, images, 2)
	require.Equal(t, 2, PageCount(doc))
}

func TestPNGLinesPerPageFitsBody(t *testing.T) {
	body := pageHeight - bodyTop - footerHeight
	require.LessOrEqual(t, float64(PNGLinesPerPage)*lineHeight, body)
	require.Greater(t, float64(PNGLinesPerPage+1)*lineHeight, body)
}

func TestPageFacesCoverSpanishText(t *testing.T) {
	faces, err := newPageFaces()
	require.NoError(t, err)

	for _, r := range "ÓÉéíóáúñ•" {
		for name, face := range map[string]font.Face{"regular": faces.regular, "bold": faces.bold, "title": faces.title} {
			_, ok := face.GlyphAdvance(r)
			require.True(t, ok, "%s face has no glyph for %q", name, r)
		}
	}
}

func TestDrawStringRendersAccentedGlyph(t *testing.T) {
	faces, err := newPageFaces()
	require.NoError(t, err)

	dc := gg.NewContext(40, 40)
	dc.SetColor(color.White)
	dc.Clear()
	dc.SetColor(color.Black)
	dc.SetFontFace(faces.title)
	dc.DrawString("Ó", 10, 30)

	img := dc.Image()
	inked := 0
	for y := img.Bounds().Min.Y; y < img.Bounds().Max.Y; y++ {
		for x := img.Bounds().Min.X; x < img.Bounds().Max.X; x++ {
			if r, _, _, _ := img.At(x, y).RGBA(); r < 0x8000 {
				inked++
			}
		}
	}
	require.Greater(t, inked, 10, "accented glyph drew no pixels")
}
