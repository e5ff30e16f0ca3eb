package export

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TextLinesPerPage is the body height of a plain-text page.
const TextLinesPerPage = 60

const textWidth = 72

// Paginate splits lines into pages of at most perPage lines. Spacers are not
// carried to the top of a page.
func Paginate(lines []Line, perPage int) [][]Line {
	if perPage <= 0 {
		perPage = 1
	}
	var (
		pages   [][]Line
		current []Line
	)
	for _, l := range lines {
		if l.Style == StyleSpacer && len(current) == 0 {
			continue
		}
		current = append(current, l)
		if len(current) == perPage {
			pages = append(pages, current)
			current = nil
		}
	}
	if len(current) > 0 || len(pages) == 0 {
		pages = append(pages, current)
	}
	return pages
}

// WriteText renders the document as plain text, one header per page.
func WriteText(w io.Writer, doc Document) error {
	bw := bufio.NewWriter(w)
	pages := Paginate(doc.Lines, TextLinesPerPage)

	for i, page := range pages {
		if i > 0 {
			fmt.Fprint(bw, "\f\n")
		}
		writeTextHeader(bw, doc)
		for _, l := range page {
			writeTextLine(bw, l)
		}
		if len(pages) > 1 {
			fmt.Fprintf(bw, "\n%s\n", rightAlign(fmt.Sprintf("Página %d de %d", i+1, len(pages)), textWidth))
		}
	}
	fmt.Fprintf(bw, "\n%s\n", center(doc.Brand.Email+" | "+doc.Brand.Website, textWidth))

	return bw.Flush()
}

func writeTextHeader(w io.Writer, doc Document) {
	rule := strings.Repeat("=", textWidth)
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, spread(doc.Brand.Name, "Fecha: "+FormatDate(doc.Date), textWidth))
	fmt.Fprintln(w, rule)
	fmt.Fprintln(w, doc.Title)
	fmt.Fprintln(w, doc.Brand.Tagline)
	fmt.Fprintln(w)
}

func writeTextLine(w io.Writer, l Line) {
	switch l.Style {
	case StyleSpacer:
		fmt.Fprintln(w)
	case StyleHeading:
		fmt.Fprintln(w, l.Label)
	case StyleField:
		fmt.Fprintf(w, "%-24s%s\n", l.Label, l.Value)
	case StyleBullet:
		fmt.Fprintf(w, "  - %s\n", l.Label)
	case StyleCost, StyleSummary, StyleUnitPrice:
		fmt.Fprintln(w, spread(l.Label, l.Value, textWidth))
	case StyleTotal:
		fmt.Fprintln(w, strings.Repeat("-", textWidth))
		fmt.Fprintln(w, spread(l.Label, l.Value, textWidth))
		fmt.Fprintln(w, strings.Repeat("-", textWidth))
	case StyleNote:
		fmt.Fprintf(w, "* %s\n", l.Label)
	}
}

func spread(left, right string, width int) string {
	gap := width - runeLen(left) - runeLen(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func rightAlign(s string, width int) string {
	return spread("", s, width)
}

func center(s string, width int) string {
	pad := (width - runeLen(s)) / 2
	if pad < 0 {
		pad = 0
	}
	return strings.Repeat(" ", pad) + s
}

func runeLen(s string) int {
	return len([]rune(s))
}
