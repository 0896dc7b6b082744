// Package producer renders expense reports delivered back to the user
package producer

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/chucky-1/expenses/internal/model"
)

const (
	sheetName = "Sheet1"
	totalsRow = "Итого"
)

type Totals struct {
	Amount    float64
	AmountUSD float64
}

// BuildReport renders rows into a spreadsheet, one row per expense in input
// order, with a totals row at the bottom. withID adds the id column used by
// the delete and update listings.
func BuildReport(rows []model.Expense, withID bool) ([]byte, Totals, error) {
	file := excelize.NewFile()
	defer file.Close()

	header := []interface{}{"Название", "Сумма (₴)", "Сумма ($)", "Дата"}
	if withID {
		header = append([]interface{}{"ID"}, header...)
	}
	if err := file.SetSheetRow(sheetName, "A1", &header); err != nil {
		return nil, Totals{}, fmt.Errorf("reporter couldn't write header: %v", err)
	}

	var totals Totals
	for i, row := range rows {
		totals.Amount += row.Amount
		totals.AmountUSD += row.AmountUSD

		cells := []interface{}{row.Name, row.Amount, row.AmountUSD, row.Date.Format(model.DateLayout)}
		if withID {
			cells = append([]interface{}{row.ID}, cells...)
		}
		if err := file.SetSheetRow(sheetName, fmt.Sprintf("A%d", i+2), &cells); err != nil {
			return nil, Totals{}, fmt.Errorf("reporter couldn't write row %d: %v", i, err)
		}
	}

	cells := []interface{}{totalsRow, totals.Amount, totals.AmountUSD, ""}
	if withID {
		cells = append([]interface{}{""}, cells...)
	}
	if err := file.SetSheetRow(sheetName, fmt.Sprintf("A%d", len(rows)+2), &cells); err != nil {
		return nil, Totals{}, fmt.Errorf("reporter couldn't write totals row: %v", err)
	}

	buf, err := file.WriteToBuffer()
	if err != nil {
		return nil, Totals{}, fmt.Errorf("reporter couldn't serialize report: %v", err)
	}
	return buf.Bytes(), totals, nil
}

// RangeCaption is the message that accompanies a period report document
func RangeCaption(start, end time.Time, totals Totals) string {
	return fmt.Sprintf("Отчёт за период %s - %s\n\nОбщая сумма: %.2f₴ (%.2f$)",
		start.Format(model.DateLayout), end.Format(model.DateLayout), totals.Amount, totals.AmountUSD)
}
