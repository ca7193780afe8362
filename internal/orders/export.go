package orders

import (
	"encoding/csv"
	"io"
	"strconv"

	"alhidayah-backend/internal/models"
)

var csvHeader = []string{"Order ID", "Customer", "Phone", "Status", "Total", "Date"}

const csvDateLayout = "2006-01-02 15:04"

// WriteCSV her sipariş için bir satır yazar, başlık dahil len(orders)+1 satır.
func WriteCSV(w io.Writer, orders []models.Order) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, o := range orders {
		row := []string{
			o.ID,
			o.CustomerName,
			o.CustomerPhone,
			string(o.Status),
			strconv.FormatFloat(o.Total, 'f', 2, 64),
			o.CreatedAt.Format(csvDateLayout),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
