package inspect

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var addressPattern = regexp.MustCompile(
	`(?i)\b(?:(?:\d{1,3}\.){3}\d{1,3}|[a-z0-9-]+(?:\.[a-z0-9-]+)*\.[a-z]{2,}):\d{2,5}\b` +
		`|\b(?:\d{1,3}\.){3}\d{1,3}\b`,
)

// Describe reads the server heading and a connectable address out of a page
// snapshot. The address falls back to the heading, then to fallback.
func Describe(html, fallback string) (name, address string) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fallback
	}

	name = normalizeLabel(doc.Find("h1").First().Text())

	if a := findAddress(doc); a != "" {
		return name, a
	}
	if name != "" {
		return name, name
	}
	return name, fallback
}

func findAddress(doc *goquery.Document) string {
	var found string
	doc.Find("body, body *").Not("script, style, noscript").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		s.Contents().EachWithBreak(func(_ int, c *goquery.Selection) bool {
			if goquery.NodeName(c) != "#text" {
				return true
			}
			if m := addressPattern.FindString(c.Text()); m != "" {
				found = m
				return false
			}
			return true
		})
		return found == ""
	})
	if found != "" {
		return found
	}

	doc.Find("input[value]").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		v, _ := s.Attr("value")
		if m := addressPattern.FindString(v); m != "" {
			found = m
			return false
		}
		return true
	})
	return found
}
