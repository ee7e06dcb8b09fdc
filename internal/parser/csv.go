package parser

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/dgallion1/wikitree/internal/wikiast"
)

// csvBatchSize is the number of data rows per section.
const csvBatchSize = 20

// CSVParser handles CSV files. The first row is the header; data rows are
// grouped into sections of one table each.
type CSVParser struct{}

func (p *CSVParser) Parse(r io.Reader, filename string) (*wikiast.Page, error) {
	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}

	page := &wikiast.Page{Title: titleFromFilename(filename)}
	if len(records) == 0 {
		return page, nil
	}

	header := tableRow(wikiast.KindTableHeader, records[0])
	dataRows := records[1:]

	for i := 0; i < len(dataRows); i += csvBatchSize {
		end := min(i+csvBatchSize, len(dataRows))

		rows := []wikiast.Node{header}
		for _, rec := range dataRows[i:end] {
			rows = append(rows, tableRow(wikiast.KindTableCell, rec))
		}

		// 1-indexed, skipping the header row.
		label := fmt.Sprintf("Rows %d-%d", i+2, end+1)
		page.Content = append(page.Content, &wikiast.Section{
			Level: 2,
			Title: []wikiast.Node{wikiast.Plain(label)},
			Body:  []wikiast.Node{wikiast.Wrap(wikiast.KindTable, rows...)},
		})
	}

	// Header only.
	if len(dataRows) == 0 {
		page.Content = []wikiast.Node{wikiast.Wrap(wikiast.KindTable, header)}
	}
	return page, nil
}

func tableRow(cellKind wikiast.Kind, cells []string) wikiast.Node {
	row := make([]wikiast.Node, 0, len(cells))
	for _, c := range cells {
		row = append(row, wikiast.Wrap(cellKind, wikiast.Plain(c)))
	}
	return wikiast.Wrap(wikiast.KindTableRow, row...)
}
