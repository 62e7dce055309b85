package export

import (
	"context"
	"fmt"
	"io"

	"github.com/angelmondragon/cellar-backend/pkg/clock"
	"github.com/angelmondragon/cellar-backend/pkg/db/models"
	"github.com/xuri/excelize/v2"
)

// SheetName is the worksheet holding the product status report.
const SheetName = "Product Status Report"

var header = []any{"Product", "Type", "Quantity", "Status", "Reported By", "Date", "Review Notes"}

// ProductStatusRow is one tabular line of the report.
type ProductStatusRow struct {
	Product     string
	Type        string
	Quantity    int
	Status      string
	ReportedBy  string
	Date        string
	ReviewNotes string
}

// Sink receives the product status table.
type Sink interface {
	WriteProductStatuses(ctx context.Context, rows []ProductStatusRow) error
}

// RowsFromStatuses flattens reports in collection order.
func RowsFromStatuses(statuses []models.ProductStatus) []ProductStatusRow {
	rows := make([]ProductStatusRow, 0, len(statuses))
	for _, ps := range statuses {
		rows = append(rows, ProductStatusRow{
			Product:     ps.ProductName,
			Type:        string(ps.Type),
			Quantity:    ps.Quantity,
			Status:      string(ps.Status),
			ReportedBy:  ps.ReportedByUsername,
			Date:        clock.DateOf(ps.ReportedAt),
			ReviewNotes: ps.ReviewNotes,
		})
	}
	return rows
}

// XLSXSink renders the report as a single-sheet workbook.
type XLSXSink struct {
	out io.Writer
}

// NewXLSXSink writes workbooks to out.
func NewXLSXSink(out io.Writer) (*XLSXSink, error) {
	if out == nil {
		return nil, fmt.Errorf("xlsx output writer required")
	}
	return &XLSXSink{out: out}, nil
}

func (s *XLSXSink) WriteProductStatuses(ctx context.Context, rows []ProductStatusRow) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := []any{row.Product, row.Type, row.Quantity, row.Status, row.ReportedBy, row.Date, row.ReviewNotes}
		if err := f.SetSheetRow(SheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(s.out); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
