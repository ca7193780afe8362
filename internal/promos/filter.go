package promos

import (
	"fmt"
	"strconv"
	"strings"

	"alhidayah-backend/internal/listing"
	"alhidayah-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	StatusActive   = "ACTIVE"
	StatusInactive = "INACTIVE"
)

type Stats struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// ParseStatus ALL için nil, ACTIVE/INACTIVE için is_active değerini döndürür.
func ParseStatus(v string) (*bool, error) {
	if listing.IsAll(v) {
		return nil, nil
	}
	var active bool
	switch strings.ToUpper(v) {
	case StatusActive:
		active = true
	case StatusInactive:
		active = false
	default:
		return nil, fiber.NewError(fiber.StatusBadRequest, "status ALL, ACTIVE veya INACTIVE olmalı")
	}
	return &active, nil
}

func Search(promos []models.Promo, query string) []models.Promo {
	return listing.Filter(promos, func(p models.Promo) bool {
		return listing.Matches(query, p.Title)
	})
}

func ComputeStats(promos []models.Promo) Stats {
	s := Stats{Total: len(promos)}
	for _, p := range promos {
		if p.IsActive {
			s.Active++
		} else {
			s.Inactive++
		}
	}
	return s
}

// ValueLabel kart üzerinde gösterilen indirim etiketi: "10% OFF", "SAR 5 OFF", "FREE DELIVERY".
func ValueLabel(p models.Promo) string {
	switch p.Type {
	case models.PromoTypePercent:
		return strconv.FormatFloat(p.Value, 'f', -1, 64) + "% OFF"
	case models.PromoTypeFixed:
		return fmt.Sprintf("SAR %.0f OFF", p.Value)
	case models.PromoTypeFreeDelivery:
		return "FREE DELIVERY"
	}
	return ""
}
