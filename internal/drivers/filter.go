package drivers

import (
	"math"

	"alhidayah-backend/internal/listing"
	"alhidayah-backend/internal/models"
)

type Stats struct {
	Total           int     `json:"total"`
	Available       int     `json:"available"`
	Busy            int     `json:"busy"`
	TotalDeliveries int     `json:"total_deliveries"`
	AvgRating       float64 `json:"avg_rating"`
}

// Search ad, telefon ve plaka numarasında arar.
func Search(drivers []models.Driver, query string) []models.Driver {
	return listing.Filter(drivers, func(d models.Driver) bool {
		return listing.Matches(query, d.Name, d.Phone, d.VehicleNumber)
	})
}

func ComputeStats(drivers []models.Driver) Stats {
	s := Stats{Total: len(drivers)}
	var ratingSum float64
	for _, d := range drivers {
		switch d.Status {
		case models.DriverStatusAvailable:
			s.Available++
		case models.DriverStatusBusy:
			s.Busy++
		}
		s.TotalDeliveries += d.TotalDeliveries
		ratingSum += d.Rating
	}
	if len(drivers) > 0 {
		s.AvgRating = math.Round(ratingSum/float64(len(drivers))*10) / 10
	}
	return s
}
