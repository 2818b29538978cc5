// Package views holds the embedded HTML templates rendered through gin.
package views

import (
	"embed"
	"html/template"
	"math"
	"strconv"
	"strings"
)

//go:embed templates/*.tmpl
var files embed.FS

// Templates parses every page and the shared layout.
func Templates() *template.Template {
	return template.Must(template.New("").Funcs(Funcs()).ParseFS(files, "templates/*.tmpl"))
}

// Funcs are the helpers available to every template.
func Funcs() template.FuncMap {
	return template.FuncMap{
		"formatPrice": FormatPrice,
		"plainNumber": PlainNumber,
		"stars":       Stars,
	}
}

// FormatPrice renders a price with Indian digit grouping, e.g. 150000 -> "1,50,000".
func FormatPrice(price float64) string {
	negative := price < 0
	price = math.Abs(price)
	whole := math.Floor(price)
	fraction := math.Round((price - whole) * 100)
	if fraction == 100 {
		whole++
		fraction = 0
	}

	digits := strconv.FormatFloat(whole, 'f', 0, 64)
	var b strings.Builder
	if negative {
		b.WriteByte('-')
	}
	if len(digits) > 3 {
		head, tail := digits[:len(digits)-3], digits[len(digits)-3:]
		lead := len(head) % 2
		if lead > 0 {
			b.WriteString(head[:lead])
		}
		for i := lead; i < len(head); i += 2 {
			if b.Len() > 0 && !(negative && b.Len() == 1) {
				b.WriteByte(',')
			}
			b.WriteString(head[i : i+2])
		}
		b.WriteByte(',')
		b.WriteString(tail)
	} else {
		b.WriteString(digits)
	}
	if fraction > 0 {
		b.WriteString(strings.TrimRight("."+strconv.FormatFloat(fraction/100, 'f', 2, 64)[2:], "0"))
	}
	return b.String()
}

// PlainNumber renders n in positional notation for form inputs, e.g.
// 1500000 -> "1500000" rather than "1.5e+06".
func PlainNumber(n float64) string {
	return strconv.FormatFloat(n, 'f', -1, 64)
}

// Stars renders a 1-5 rating as filled and empty stars.
func Stars(rating *int) string {
	if rating == nil {
		return ""
	}
	n := *rating
	if n < 0 {
		n = 0
	}
	if n > 5 {
		n = 5
	}
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}
