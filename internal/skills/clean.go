package skills

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const blockSelector = "br,p,div,li,ul,ol,tr,h1,h2,h3,h4,h5,h6,section,article"

// CleanDescription turns a provider description into plain text. Markup is
// stripped, block elements become line breaks, and whitespace is collapsed
// inside each line. Line breaks survive so a capitalized run never spans two
// lines.
func CleanDescription(s string) string {
	if s == "" {
		return ""
	}
	if looksLikeHTML(s) {
		s = htmlToText(s)
	}
	return collapseLines(s)
}

func looksLikeHTML(s string) bool {
	if !strings.Contains(s, "<") {
		return false
	}
	l := strings.ToLower(s)
	return strings.Contains(l, "</") || strings.Contains(l, "/>") || strings.Contains(l, "<br")
}

func htmlToText(s string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return s
	}
	doc.Find("script,style,noscript").Remove()
	doc.Find(blockSelector).Each(func(_ int, sel *goquery.Selection) {
		sel.AfterHtml("\n")
	})
	return doc.Text()
}

func collapseLines(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.ReplaceAll(s, "\r\n", "\n")

	lines := strings.Split(s, "\n")
	out := lines[:0]
	for _, ln := range lines {
		ln = strings.Join(strings.Fields(ln), " ")
		if ln != "" {
			out = append(out, ln)
		}
	}
	return strings.Join(out, "\n")
}
