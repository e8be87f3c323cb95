package handlers

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
	"github.com/saquibjawedbit/Booking-Web/internal/middleware"
	"github.com/saquibjawedbit/Booking-Web/internal/models"
	"github.com/saquibjawedbit/Booking-Web/internal/services"
	"github.com/saquibjawedbit/Booking-Web/internal/utils"
)

type BookingHandler struct {
	svc services.BookingService
}

func NewBookingHandler(svc services.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

// CreateAggregate accepts the composed checkout bundle and responds with the
// payment redirect URL.
func (h *BookingHandler) CreateAggregate(c *fiber.Ctx) error {
	var req models.AggregateBookingRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("invalid body: %w", apperr.ErrValidation)
	}
	if err := utils.ValidateStruct(req); err != nil {
		return fmt.Errorf("%v: %w", err, apperr.ErrValidation)
	}

	res, err := h.svc.CreateAggregate(c.Context(), middleware.UserID(c), req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}
