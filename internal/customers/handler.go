package customers

import (
	"alhidayah-backend/internal/apperr"
	"alhidayah-backend/internal/logger"
	"alhidayah-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type ListResponse struct {
	Items []models.User `json:"items"`
	Stats Stats         `json:"stats"`
}

type DetailResponse struct {
	Customer *models.User   `json:"customer"`
	Orders   []models.Order `json:"orders"`
}

// GET /api/customers?search=...
func ListCustomersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		users, err := List(c.UserContext())
		if err != nil {
			logger.GetAppLogger().WithError(err).Error("Müşteriler listelenemedi")
			return fiber.NewError(fiber.StatusInternalServerError, "Müşteriler listelenemedi")
		}

		items := Search(users, c.Query("search"))
		return c.JSON(ListResponse{Items: items, Stats: ComputeStats(items)})
	}
}

// GET /api/customers/:uid
func GetCustomerHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		uid := c.Params("uid")
		u, err := Get(c.UserContext(), uid)
		if err != nil {
			return apperr.NotFoundOr(err, "Müşteri bulunamadı", "Müşteri okunamadı")
		}
		return c.JSON(DetailResponse{Customer: u, Orders: Orders(c.UserContext(), uid)})
	}
}

// GET /api/customers/:uid/orders
func CustomerOrdersHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(Orders(c.UserContext(), c.Params("uid")))
	}
}
