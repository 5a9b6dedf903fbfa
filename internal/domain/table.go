package domain

import (
	"bytes"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

const (
	// RowSelector matches observation rows; renderers wait for it before
	// handing the document over.
	RowSelector = "table tbody tr"

	// DateCell is the column holding the observation date.
	DateCell = 0
	// GaugeCatchCell is the column holding the gauge catch.
	GaugeCatchCell = 3

	minCells = GaugeCatchCell + 1
)

// FirstRow returns the first observation row of the first table in html, or
// false when there is none. Unparsable markup counts as having no row.
func FirstRow(html []byte) (ObservationRow, bool) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return ObservationRow{}, false
	}

	tr := doc.Find(RowSelector).First()
	if tr.Length() == 0 {
		return ObservationRow{}, false
	}

	cells := []string{}
	tr.ChildrenFiltered("td").Each(func(_ int, td *goquery.Selection) {
		cells = append(cells, cellText(td))
	})
	return ObservationRow{Cells: cells}, true
}

// cellText returns the visible text of a cell with whitespace runs collapsed.
func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
