package orders

import (
	"alhidayah-backend/internal/listing"
	"alhidayah-backend/internal/models"
)

type Stats struct {
	Total      int                        `json:"total"`
	New        int                        `json:"new"`
	Processing int                        `json:"processing"`
	Delivered  int                        `json:"delivered"`
	ByStatus   map[models.OrderStatus]int `json:"by_status"`
}

// Search sipariş no, müşteri adı ve telefonunda arar.
func Search(orders []models.Order, query string) []models.Order {
	return listing.Filter(orders, func(o models.Order) bool {
		return listing.Matches(query, o.ID, o.CustomerName, o.CustomerPhone)
	})
}

func ComputeStats(orders []models.Order) Stats {
	s := Stats{
		Total:    len(orders),
		ByStatus: make(map[models.OrderStatus]int, len(models.OrderStatuses)),
	}
	for _, st := range models.OrderStatuses {
		s.ByStatus[st] = 0
	}
	for _, o := range orders {
		s.ByStatus[o.Status]++
	}
	s.New = s.ByStatus[models.OrderStatusNew]
	s.Processing = s.ByStatus[models.OrderStatusProcessing]
	s.Delivered = s.ByStatus[models.OrderStatusDelivered]
	return s
}
