package service

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// disallowedElements never make it into a rendered recipe
const disallowedElements = "script, style, iframe, object, embed, link, meta, base, form"

// urlAttributes hold URLs a browser may navigate to or load
var urlAttributes = map[string]bool{
	"href":       true,
	"src":        true,
	"action":     true,
	"formaction": true,
	"xlink:href": true,
	"poster":     true,
	"background": true,
}

// safeURL reports whether a URL attribute value is relative or uses an allowed
// scheme. Browsers ignore control characters and whitespace anywhere in a
// scheme, so they are dropped before looking for the colon.
func safeURL(value string) bool {
	cleaned := strings.ToLower(strings.Map(func(r rune) rune {
		if r <= 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, value))

	colon := strings.IndexByte(cleaned, ':')
	if colon < 0 {
		return true
	}
	// A colon after a path, query or fragment delimiter is not a scheme
	if delim := strings.IndexAny(cleaned, "/?#"); delim >= 0 && delim < colon {
		return true
	}
	switch cleaned[:colon] {
	case "http", "https", "mailto":
		return true
	}
	return false
}

// SanitizeFragment strips active content from an HTML fragment returned by the
// recipe API. It returns the cleaned markup and its plain text.
func SanitizeFragment(fragment string) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<div id=\"recipe-root\">" + fragment + "</div>"))
	if err != nil {
		return "", "", err
	}
	root := doc.Find("#recipe-root").First()

	root.Find(disallowedElements).Remove()
	root.Find("*").Each(func(_ int, sel *goquery.Selection) {
		node := sel.Get(0)
		var unsafe []string
		for _, attr := range node.Attr {
			key := strings.ToLower(attr.Key)
			if strings.HasPrefix(key, "on") || (urlAttributes[key] && !safeURL(attr.Val)) {
				unsafe = append(unsafe, attr.Key)
			}
		}
		for _, key := range unsafe {
			sel.RemoveAttr(key)
		}
	})

	html, err := root.Html()
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(html), strings.TrimSpace(root.Text()), nil
}
