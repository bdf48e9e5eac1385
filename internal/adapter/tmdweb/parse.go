package tmdweb

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"

	"github.com/couchcryptid/quake-alert-service/internal/domain"
)

// Row grammar of the warning listing:
//
//	<div class="list-content">
//	  <div class="link-list-title"><a href=".../<12 digits>">title</a></div>
//	  <div class="link-list-description"><a>description</a></div>
//	</div>
//
// The link's trailing 12-digit token is the bulletin id and timestamp; it is
// left in the record's Link for the normalizer to interpret. Rows whose
// title anchor is missing carry no identifier and are skipped here.

// parseWarningRows extracts one raw record per bulletin row from the page
// markup.
func parseWarningRows(r io.Reader) ([]domain.RawRecord, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	var records []domain.RawRecord
	for _, row := range findAll(root, isRow) {
		anchor := firstAnchorUnder(row, "link-list-title")
		if anchor == nil {
			continue
		}

		record := domain.RawRecord{
			Link:  attr(anchor, "href"),
			Title: strings.TrimSpace(text(anchor)),
		}
		if desc := firstAnchorUnder(row, "link-list-description"); desc != nil {
			record.Description = strings.TrimSpace(text(desc))
		}
		records = append(records, record)
	}
	return records, nil
}

func isRow(n *html.Node) bool {
	return n.Type == html.ElementNode && n.Data == "div" && hasClass(n, "list-content")
}

// firstAnchorUnder returns the first <a> inside a descendant that carries
// the given class, or nil.
func firstAnchorUnder(row *html.Node, class string) *html.Node {
	for _, holder := range findAll(row, func(n *html.Node) bool {
		return n.Type == html.ElementNode && hasClass(n, class)
	}) {
		anchors := findAll(holder, func(n *html.Node) bool {
			return n.Type == html.ElementNode && n.Data == "a"
		})
		if len(anchors) > 0 {
			return anchors[0]
		}
	}
	return nil
}

// findAll walks the subtree depth-first and collects nodes matching pred.
func findAll(root *html.Node, pred func(*html.Node) bool) []*html.Node {
	var matches []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if pred(n) {
			matches = append(matches, n)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(root)
	return matches
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

// text concatenates the text nodes of a subtree.
func text(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for child := n.FirstChild; child != nil; child = child.NextSibling {
			walk(child)
		}
	}
	walk(n)
	return b.String()
}
