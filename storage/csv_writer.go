package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"price-scout/models"
)

var csvHeader = []string{"store", "name", "price", "in_stock", "rating", "link"}

// CSVWriter renders listings as CSV, header row first.
type CSVWriter struct{}

// NewCSVWriter creates a CSVWriter.
func NewCSVWriter() *CSVWriter {
	return &CSVWriter{}
}

// Write writes every listing to w in the order given.
func (c *CSVWriter) Write(w io.Writer, listings []*models.Listing) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}

	for _, l := range listings {
		row := []string{
			l.Store,
			l.Name,
			strconv.FormatFloat(l.Price, 'f', 2, 64),
			strconv.FormatBool(l.InStock),
			strconv.FormatFloat(l.Rating, 'f', -1, 64),
			l.Link,
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
