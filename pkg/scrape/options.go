package scrape

import (
	"bytes"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
)

// ParseOptions extracts the option values offered by the selector widget
// with the given element id, in document order and deduplicated.
//
// If after is non-empty, only values strictly after its first occurrence
// are returned. A missing selector or a stale cutoff value both yield an
// empty slice: the caller treats "no options" as "no children to
// traverse", never as an error.
func ParseOptions(page []byte, selectorID, after string) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return []string{}
	}

	options := []string{}
	doc.Find("#" + selectorID).Children().Each(
		func(_ int, sel *goquery.Selection) {
			if value, ok := sel.Attr("value"); ok {
				options = append(options, value)
			}
		})
	options = lo.Uniq(options)

	if after == "" {
		return options
	}
	idx := lo.IndexOf(options, after)
	if idx < 0 {
		// resume point no longer offered upstream; traversal stops here
		return []string{}
	}
	return options[idx+1:]
}
