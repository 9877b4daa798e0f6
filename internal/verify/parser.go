package verify

import (
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// Canonical returns the absolute href of the first <link rel="canonical">
// in the page, or "" when the page declares none.
func Canonical(r io.Reader, pageURL string) (string, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return "", err
	}

	var canonical string
	var visit func(*html.Node) bool
	visit = func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.Data == "link" && hasRel(n, "canonical") {
			if href := attr(n, "href"); href != "" {
				canonical = resolveURL(pageURL, href)
				return true
			}
		}
		// Stop at <body>; canonical links belong in <head>.
		if n.Type == html.ElementNode && n.Data == "body" {
			return false
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if visit(c) {
				return true
			}
		}
		return false
	}
	visit(doc)
	return canonical, nil
}

func hasRel(n *html.Node, rel string) bool {
	for _, v := range strings.Fields(attr(n, "rel")) {
		if strings.EqualFold(v, rel) {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return strings.TrimSpace(a.Val)
		}
	}
	return ""
}

// resolveURL resolves relative hrefs (e.g. "/about" -> "https://site.com/about").
func resolveURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(u).String()
}
