// Package document produces the acceptance record generated as part of a
// submission attempt: a title line with the registrant's display name and
// the fixed terms text reflowed onto fixed-size pages.
package document

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

// Layout constants for the acceptance document.  Page background and text
// colors are fixed presentation values, not configuration.
const (
	pageMargin    = 10.0 // left/right margin for body text
	titleBaseline = 20.0 // y of the bold "Username: ..." line
	bodyStart     = 30.0 // y of the first body line on page one
	overflowStart = 10.0 // y of the first body line on continuation pages
	lineStep      = 10.0 // vertical advance per emitted line
	bottomReserve = 20.0 // lines landing past pageHeight-bottomReserve overflow
)

// Document is the generated acceptance record.  Pages holds the reflowed
// body lines in emission order, one slice per page, so callers can reason
// about pagination without parsing the PDF bytes.
type Document struct {
	UserName string
	Pages    [][]string
	PDF      []byte
}

// PageCount returns the number of emitted pages.
func (d *Document) PageCount() int { return len(d.Pages) }

// Generate builds the acceptance document for the given display name.  The
// pagination is greedy: lines are emitted top to bottom and a new page is
// started (with its background reapplied) as soon as the next line would
// cross the bottom reserve.  No look-ahead, no widow/orphan handling, no
// line is dropped or duplicated.
func Generate(userName string) (*Document, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pageWidth, pageHeight := pdf.GetPageSize()

	// First page background, then the bold username header.
	pdf.SetFillColor(230, 230, 250)
	pdf.Rect(0, 0, pageWidth, pageHeight, "F")
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetTextColor(50, 50, 50)
	pdf.Text(pageMargin, titleBaseline, "Username: "+userName)

	pdf.SetFont("Helvetica", "", 12)
	lines := pdf.SplitText(TermsText, pageWidth-pageMargin*2)

	pages := make([][]string, 1)
	y := bodyStart
	for _, line := range lines {
		if y > pageHeight-bottomReserve {
			pdf.AddPage()
			pdf.SetFillColor(203, 213, 225)
			pdf.Rect(0, 0, pageWidth, pageHeight, "F")
			y = overflowStart
			pages = append(pages, nil)
		}
		pdf.Text(pageMargin, y, line)
		pages[len(pages)-1] = append(pages[len(pages)-1], line)
		y += lineStep
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render acceptance document: %w", err)
	}
	return &Document{UserName: userName, Pages: pages, PDF: buf.Bytes()}, nil
}
