package sitemap

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"time"
)

const (
	Namespace  = "http://www.sitemaps.org/schemas/sitemap/0.9"
	DateLayout = "2006-01-02"
	prolog     = `<?xml version="1.0" encoding="UTF-8"?>` + "\n"
)

// URLSet is the <urlset> root of a sitemaps.org 0.9 document.
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL represents a single URL entry in the sitemap.
type URL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod,omitempty"`
	ChangeFreq string `xml:"changefreq,omitempty"`
	Priority   string `xml:"priority,omitempty"`
}

// NewURLSet stamps every route with now's UTC date.
func NewURLSet(base string, routes []Route, now time.Time) *URLSet {
	lastMod := now.UTC().Format(DateLayout)
	set := &URLSet{Xmlns: Namespace, URLs: make([]URL, 0, len(routes))}
	for _, r := range routes {
		set.URLs = append(set.URLs, URL{
			Loc:        Loc(base, r.Path),
			LastMod:    lastMod,
			ChangeFreq: string(r.ChangeFreq),
			Priority:   strconv.FormatFloat(r.Priority, 'f', 1, 64),
		})
	}
	return set
}

// Encode writes the prolog and the indented document.
func Encode(w io.Writer, set *URLSet) error {
	if _, err := io.WriteString(w, prolog); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(set); err != nil {
		return fmt.Errorf("encode urlset: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Decode reads a <urlset> document.
func Decode(r io.Reader) (*URLSet, error) {
	var set URLSet
	if err := xml.NewDecoder(r).Decode(&set); err != nil {
		return nil, fmt.Errorf("decode urlset: %w", err)
	}
	return &set, nil
}
