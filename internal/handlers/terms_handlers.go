package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saquibjawedbit/Booking-Web/internal/repository"
)

type TermsHandler struct {
	repo repository.TermsRepository
}

func NewTermsHandler(repo repository.TermsRepository) *TermsHandler {
	return &TermsHandler{repo: repo}
}

// ListLive serves the published terms the client renders before checkout.
func (h *TermsHandler) ListLive(c *fiber.Ctx) error {
	terms, err := h.repo.ListLive(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"terms": terms})
}
