// Package export serializes already-filtered ledger rows for download.
// It computes no aggregates; callers hand it rows in display order.
package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/devxxclaire/MyFinanceHub/internal/core"
)

var expenseHeader = []string{"#", "date", "category", "amount", "description"}

var incomeHeader = []string{"#", "date", "amount", "description"}

// SheetName is the single worksheet of XLSX downloads.
const SheetName = "Ledger"

// WriteExpensesCSV streams expenses as CSV. The first column is a
// display-only sequential index; stored identifiers never appear in
// exports.
func WriteExpensesCSV(w io.Writer, expenses []core.Expense) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(expenseHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, e := range expenses {
		record := []string{
			fmt.Sprintf("%d", i+1),
			e.Date.String(),
			e.Category,
			e.Amount.StringFixed(2),
			e.Description,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteIncomesCSV streams incomes as CSV.
func WriteIncomesCSV(w io.Writer, incomes []core.Income) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(incomeHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, in := range incomes {
		record := []string{
			fmt.Sprintf("%d", i+1),
			in.Date.String(),
			in.Amount.StringFixed(2),
			in.Description,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write csv row %d: %w", i+1, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteExpensesXLSX writes expenses as a single-sheet workbook.
func WriteExpensesXLSX(w io.Writer, expenses []core.Expense) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("drop default sheet: %w", err)
	}

	header := make([]any, len(expenseHeader))
	for i, h := range expenseHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}

	for i, e := range expenses {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name for row %d: %w", i+2, err)
		}
		row := []any{i + 1, e.Date.String(), e.Category, e.Amount.StringFixed(2), e.Description}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
