package reports

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"alhidayah-backend/internal/models"

	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	ordersSheet  = "Orders"
	xlsxDate     = "2006-01-02 15:04"
)

func summaryRows(s Summary) [][]string {
	return [][]string{
		{"Metric", "Value"},
		{"Total Orders", strconv.Itoa(s.TotalOrders)},
		{"Completed Orders", strconv.Itoa(s.CompletedOrders)},
		{"Cancelled Orders", strconv.Itoa(s.CancelledOrders)},
		{"Total Revenue", strconv.FormatFloat(s.TotalRevenue, 'f', 2, 64)},
		{"Average Order Value", strconv.FormatFloat(s.AvgOrderValue, 'f', 2, 64)},
		{"Total Drivers", strconv.Itoa(s.TotalDrivers)},
		{"Completion Rate", strconv.FormatFloat(s.CompletionRate, 'f', 1, 64) + "%"},
		{"Cancellation Rate", strconv.FormatFloat(s.CancellationRate, 'f', 1, 64) + "%"},
	}
}

// WriteSummaryCSV "Metric,Value" başlıklı iki kolonlu özet yazar.
func WriteSummaryCSV(w io.Writer, s Summary) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(summaryRows(s)); err != nil {
		return err
	}
	return cw.Error()
}

// BuildWorkbook özet ve sipariş listesini iki sayfalık bir xlsx dosyasına yazar.
func BuildWorkbook(s Summary, list []models.Order) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, err
	}
	for i, row := range summaryRows(s) {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		values := []interface{}{row[0], row[1]}
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return nil, fmt.Errorf("özet sayfası yazılamadı: %w", err)
		}
	}

	if _, err := f.NewSheet(ordersSheet); err != nil {
		return nil, err
	}
	header := []interface{}{"Order ID", "Customer", "Phone", "Status", "Total", "Date"}
	if err := f.SetSheetRow(ordersSheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, o := range list {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		row := []interface{}{
			o.ID,
			o.CustomerName,
			o.CustomerPhone,
			string(o.Status),
			o.Total,
			o.CreatedAt.Format(xlsxDate),
		}
		if err := f.SetSheetRow(ordersSheet, cell, &row); err != nil {
			return nil, fmt.Errorf("sipariş sayfası yazılamadı: %w", err)
		}
	}

	// kolon genişlikleri
	_ = f.SetColWidth(summarySheet, "A", "A", 24)
	_ = f.SetColWidth(ordersSheet, "A", "C", 20)
	_ = f.SetColWidth(ordersSheet, "F", "F", 18)

	return f.WriteToBuffer()
}
