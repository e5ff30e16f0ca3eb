// Package export turns a computed quote into a customer-facing document.
// Every monetary figure is taken from the pricing result as-is and only
// formatted here; the per-piece price is the one derived value.
package export

import (
	"fmt"
	"math"
	"regexp"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	"github.com/Simplici0/prazis-quote/internal/catalog"
	"github.com/Simplici0/prazis-quote/internal/pricing"
)

// Brand carries the identity printed on every page.
type Brand struct {
	Name      string
	ShortName string
	Tagline   string
	Email     string
	Website   string
}

var DefaultBrand = Brand{
	Name:      "PRAZIS PRINT",
	ShortName: "Prazis",
	Tagline:   "Impresión 3D Profesional",
	Email:     "gibran@prazis.mx",
	Website:   "www.prazis.com.mx",
}

// ValidityDays is how long a quote stays valid.
const ValidityDays = 15

// Style selects how a line is laid out.
type Style int

const (
	StyleSpacer Style = iota
	StyleHeading
	StyleField
	StyleBullet
	StyleCost
	StyleSummary
	StyleTotal
	StyleUnitPrice
	StyleNote
)

// Line is one row of the document body.
type Line struct {
	Style Style
	Label string
	Value string
}

// Document is the renderer-independent form of a quote.
type Document struct {
	Brand Brand
	Date  time.Time
	Title string
	Lines []Line
}

// Build lays out the quote. The catalog is only used for display names.
func Build(result pricing.Result, job pricing.JobParameters, cat *catalog.Catalog, brand Brand, now time.Time) Document {
	params := cat.Parameters()
	currency := params.Currency

	doc := Document{Brand: brand, Date: now, Title: "COTIZACIÓN"}
	add := func(style Style, label, value string) {
		doc.Lines = append(doc.Lines, Line{Style: style, Label: label, Value: value})
	}

	if job.ProjectName != "" || job.ClientName != "" || job.ClientContact != "" {
		if job.ProjectName != "" {
			add(StyleField, "Proyecto:", job.ProjectName)
		}
		if job.ClientName != "" {
			add(StyleField, "Cliente:", job.ClientName)
		}
		if job.ClientContact != "" {
			add(StyleField, "Contacto:", job.ClientContact)
		}
		add(StyleSpacer, "", "")
	}

	add(StyleHeading, "ESPECIFICACIONES TÉCNICAS", "")
	add(StyleField, "Material:", materialName(cat, result.MaterialID))
	add(StyleField, "Calidad:", qualityName(cat, result.QualityID))
	add(StyleField, "Tipo de Uso:", usageLabel(result.UsageType))
	add(StyleField, "Peso Total:", fmt.Sprintf("%.1fg", result.BilledWeightGrams))
	add(StyleField, "Tiempo de Impresión:", fmt.Sprintf("%.1f horas", result.PrintTimeHours))
	add(StyleField, "Piezas Producidas:", fmt.Sprintf("%d piezas", result.Quantity))
	if result.HasLogo {
		add(StyleField, "Logo/Personalización:", "Incluido")
	}

	services := lo.FilterMap(result.PostProcessing, func(id string, _ int) (string, bool) {
		svc, ok := cat.Service(id)
		return svc.Name, ok
	})
	if len(services) > 0 {
		add(StyleField, "Post-Procesamiento:", "")
		for _, name := range services {
			add(StyleBullet, name, "")
		}
	}
	add(StyleSpacer, "", "")

	add(StyleHeading, "DESGLOSE ECONÓMICO", "")
	add(StyleCost, "Material", Money(result.MaterialCost))
	add(StyleCost, "Electricidad", Money(result.ElectricityCost))
	add(StyleCost, "Uso de Máquina", Money(result.MachineCost))
	add(StyleCost, "Mano de Obra", Money(result.LaborCost))
	if result.PostProcessingCost > 0 {
		add(StyleCost, "Post-Procesamiento", Money(result.PostProcessingCost))
	}
	if result.LogoCost > 0 {
		add(StyleCost, "Logo/Personalización", Money(result.LogoCost))
	}
	add(StyleSpacer, "", "")

	add(StyleSummary, "Merma por fallos (incluida en material)", Money(result.FailureCost))
	if result.SurchargedSubtotal != result.BaseSubtotal {
		add(StyleSummary, "Recargo por uso funcional", Money(result.SurchargedSubtotal-result.BaseSubtotal))
	}
	if result.Discount > 0 {
		add(StyleSummary, fmt.Sprintf("Descuento por volumen (%s%%)", Percent(result.DiscountFraction)), "-"+Money(result.Discount))
	}
	add(StyleSummary, "Subtotal", Money(result.Subtotal))
	add(StyleSummary, fmt.Sprintf("Margen (%s%%)", Percent(result.ProfitMarginRate)), Money(result.ProfitMargin))
	add(StyleTotal, "TOTAL:", Money(result.Total)+" "+currency)
	if result.Quantity > 1 {
		add(StyleUnitPrice, "Precio unitario:", UnitPrice(result.Total, result.Quantity)+" "+currency)
	}
	add(StyleSpacer, "", "")

	add(StyleHeading, "CONDICIONES:", "")
	add(StyleNote, fmt.Sprintf("Validez de cotización: %d días naturales", ValidityDays), "")
	add(StyleNote, "Incluye: Material, electricidad, depreciación de equipo y mano de obra especializada", "")
	add(StyleNote, "Equipo utilizado: "+cat.Machine().Name, "")
	add(StyleNote, "Los precios están expresados en "+currency, "")

	return doc
}

func materialName(cat *catalog.Catalog, id string) string {
	if m, ok := cat.Material(id); ok {
		return m.Name
	}
	return "N/A"
}

func qualityName(cat *catalog.Catalog, id string) string {
	if q, ok := cat.Quality(id); ok {
		return q.Name
	}
	return "N/A"
}

func usageLabel(u pricing.UsageType) string {
	if u == pricing.UsageFunctional {
		return "Funcional"
	}
	return "Decorativa"
}

// Money formats an amount to cents, e.g. "$138.31". Non-finite amounts
// render as "N/A".
func Money(v float64) string {
	if !isFinite(v) {
		return "N/A"
	}
	return "$" + decimal.NewFromFloat(v).StringFixed(2)
}

// Percent formats a fraction as a whole-ish percentage, e.g. 0.05 -> "5".
func Percent(fraction float64) string {
	if !isFinite(fraction) {
		return "N/A"
	}
	return decimal.NewFromFloat(fraction).Shift(2).Round(2).String()
}

// UnitPrice divides the total across the pieces and formats it to cents.
func UnitPrice(total float64, quantity int) string {
	if !isFinite(total) || quantity < 1 {
		return "N/A"
	}
	unit := decimal.NewFromFloat(total).Div(decimal.NewFromInt(int64(quantity)))
	return "$" + unit.StringFixed(2)
}

func isFinite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9]`)

// FileName builds the download name for an exported quote.
func FileName(brand Brand, projectName string, now time.Time, ext string) string {
	project := "Proyecto"
	if projectName != "" {
		project = unsafeName.ReplaceAllString(projectName, "_")
	}
	return fmt.Sprintf("Cotizacion_%s_%s_%d.%s", brand.ShortName, project, now.UnixMilli(), ext)
}

var spanishMonths = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatDate renders a date like "15 de octubre de 2026".
func FormatDate(t time.Time) string {
	return fmt.Sprintf("%02d de %s de %d", t.Day(), spanishMonths[t.Month()-1], t.Year())
}
