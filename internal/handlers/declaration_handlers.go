package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/saquibjawedbit/Booking-Web/internal/repository"
)

type DeclarationHandler struct {
	repo repository.DeclarationRepository
}

func NewDeclarationHandler(repo repository.DeclarationRepository) *DeclarationHandler {
	return &DeclarationHandler{repo: repo}
}

func (h *DeclarationHandler) Get(c *fiber.Ctx) error {
	id, err := parseParamID(c, "id")
	if err != nil {
		return err
	}
	decl, err := h.repo.FindByID(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"declaration": decl})
}

// ListByAdventure returns the consent documents the client must show before
// booking the adventure.
func (h *DeclarationHandler) ListByAdventure(c *fiber.Ctx) error {
	id, err := parseParamID(c, "adventureId")
	if err != nil {
		return err
	}
	declarations, err := h.repo.FindByAdventure(c.Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"declarations": declarations})
}
