package scrape

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/samber/lo"
)

// sentinelTexts are the table fragments that look like rows but carry no
// result: classification annotations and lap records.
var sentinelTexts = []string{
	"Not Classified",
	"Fastest Lap: ",
	"Circuit Record Lap: ",
	"Best Lap:",
	"Pole Lap: ",
	"Not Finished 1st Lap",
	"Not Starting",
	"Excluded",
}

// a cell holding only a non-breaking space ends the results section
const blankCellMarker = " "

// ResultsTable is a parsed session results page: the header labels and
// one fixed-width row of cell text per classified entry.
type ResultsTable struct {
	SourceURL string
	EventInfo string
	Header    []string
	Rows      [][]string
}

// ParseResults extracts the results table from a session page.
//
// The expected number of rows is derived from the raw markup first; the
// cell walk then emits one row per header-width worth of cells, skipping
// standalone sentinel cells and dropping a short trailing fragment.
func ParseResults(page []byte, sourceURL string) *ResultsTable {
	ret := &ResultsTable{SourceURL: sourceURL}
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return ret
	}

	ret.EventInfo = doc.Find(".padbot5").First().Text()

	doc.Find("th").Each(func(_ int, sel *goquery.Selection) {
		if text := sel.Text(); !lo.Contains(sentinelTexts, text) {
			ret.Header = append(ret.Header, text)
		}
	})

	rowBudget := resultsLineCount(string(page), sentinelTexts)
	cells := doc.Find("td").Map(func(_ int, sel *goquery.Selection) string {
		return sel.Text()
	})

	colCount := len(ret.Header)
	if colCount == 0 {
		return ret
	}
	idx := 0
	for idx < len(cells) && len(ret.Rows) < rowBudget && cells[idx] != blankCellMarker {
		if lo.Contains(sentinelTexts, cells[idx]) {
			idx++
			continue
		}
		if idx+colCount > len(cells) {
			// short trailing fragment, dropped
			break
		}
		ret.Rows = append(ret.Rows, cells[idx:idx+colCount])
		idx += colCount
	}
	return ret
}

// resultsLineCount counts the result rows in the raw table body: row end
// markers minus occurrences of the known non-result phrases.
func resultsLineCount(source string, toSkip []string) int {
	start := strings.Index(source, "<tbody>")
	end := strings.Index(source, "</tbody>")
	if start < 0 || end < 0 {
		return 0
	}
	body := source[start : end+len("</tbody>")]

	count := strings.Count(body, "</tr>")
	for _, item := range toSkip {
		count -= strings.Count(body, item)
	}
	return count
}
