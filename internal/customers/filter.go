package customers

import (
	"alhidayah-backend/internal/listing"
	"alhidayah-backend/internal/models"
)

type Stats struct {
	Total  int `json:"total"`
	Active int `json:"active"`
}

func Search(users []models.User, query string) []models.User {
	return listing.Filter(users, func(u models.User) bool {
		return listing.Matches(query, u.Name, u.Phone, u.Email)
	})
}

func ComputeStats(users []models.User) Stats {
	s := Stats{Total: len(users)}
	for _, u := range users {
		if u.Active() {
			s.Active++
		}
	}
	return s
}
