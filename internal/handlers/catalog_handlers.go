package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
	"github.com/saquibjawedbit/Booking-Web/internal/repository"
)

// CatalogHandler serves the read-only browse endpoints straight off the
// repository; there is no business logic between them.
type CatalogHandler struct {
	repo repository.CatalogRepository
}

func NewCatalogHandler(repo repository.CatalogRepository) *CatalogHandler {
	return &CatalogHandler{repo: repo}
}

func (h *CatalogHandler) ListAdventures(c *fiber.Ctx) error {
	adventures, err := h.repo.ListAdventures(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"adventures": adventures})
}

func (h *CatalogHandler) GetAdventure(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return err
	}
	adventure, err := h.repo.FindAdventure(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"adventure": adventure})
}

func (h *CatalogHandler) ListHotels(c *fiber.Ctx) error {
	hotels, err := h.repo.ListHotels(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"hotels": hotels})
}

func (h *CatalogHandler) ListItems(c *fiber.Ctx) error {
	items, err := h.repo.ListItems(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"items": items})
}

func (h *CatalogHandler) GetHotel(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return err
	}
	hotel, err := h.repo.FindHotel(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"hotel": hotel})
}

func (h *CatalogHandler) GetItem(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.repo.FindItem(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"item": item})
}

func (h *CatalogHandler) GetSession(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return err
	}
	session, err := h.repo.FindSession(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"session": session})
}

func parseParamID(c *fiber.Ctx, name string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(c.Params(name))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid %s: %w", name, apperr.ErrValidation)
	}
	return id, nil
}
