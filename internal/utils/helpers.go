package utils

import (
	"math"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/dustin/go-humanize"
)

// FormatRubles formats a salary as a rounded ruble amount with grouped thousands, e.g. "93 808 ₽"
func FormatRubles(value float64) string {
	return FormatNumber(value) + " ₽"
}

// FormatNumber rounds value and groups thousands with spaces the way ru-RU locales print them
func FormatNumber(value float64) string {
	rounded := int64(math.Round(value))
	return strings.ReplaceAll(humanize.Comma(rounded), ",", " ")
}

// StripMarkup returns the text content of an HTML fragment. hh.ru wraps matched
// search terms in <highlighttext> tags inside titles and snippets.
func StripMarkup(fragment string) string {
	if !strings.ContainsRune(fragment, '<') {
		return strings.TrimSpace(fragment)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(fragment))
	if err != nil {
		return strings.TrimSpace(fragment)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// TruncateString truncates a string to length runes and adds "..." if necessary
func TruncateString(s string, length int) string {
	runes := []rune(s)
	if len(runes) <= length || length < 4 {
		return s
	}
	return string(runes[:length-3]) + "..."
}

// NormalizeCompanyName normalizes a company name for comparison
func NormalizeCompanyName(name string) string {
	normalized := strings.ToLower(strings.TrimSpace(name))
	replacer := strings.NewReplacer("«", "", "»", "", "\"", "", ".", "", ",", "", "-", " ")
	normalized = strings.Join(strings.Fields(replacer.Replace(normalized)), " ")
	for _, form := range []string{"ооо ", "пао ", "ао "} {
		normalized = strings.TrimPrefix(normalized, form)
	}
	return normalized
}
