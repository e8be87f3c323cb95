package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/saquibjawedbit/Booking-Web/internal/apperr"
	"github.com/saquibjawedbit/Booking-Web/internal/events"
	"github.com/saquibjawedbit/Booking-Web/internal/models"
	"github.com/saquibjawedbit/Booking-Web/internal/payment"
	"github.com/saquibjawedbit/Booking-Web/internal/pricing"
	"github.com/saquibjawedbit/Booking-Web/internal/repository"
)

// totalTolerance absorbs client-side float rounding when comparing the
// submitted total against the recomputed one.
const totalTolerance = 0.01

type bookingService struct {
	users        repository.UserRepository
	catalog      repository.CatalogRepository
	declarations repository.DeclarationRepository
	bookings     repository.BookingRepository
	pay          payment.Client
	pub          events.Publisher
	currency     string
	logger       *zap.Logger
}

func NewBookingService(
	users repository.UserRepository,
	catalog repository.CatalogRepository,
	declarations repository.DeclarationRepository,
	bookings repository.BookingRepository,
	pay payment.Client,
	pub events.Publisher,
	currency string,
	logger *zap.Logger,
) BookingService {
	return &bookingService{
		users:        users,
		catalog:      catalog,
		declarations: declarations,
		bookings:     bookings,
		pay:          pay,
		pub:          pub,
		currency:     currency,
		logger:       logger,
	}
}

// CreateAggregate runs the whole checkout: consent gate, server-side price
// recomputation from the catalog, decomposition into the per-domain booking
// documents sharing one payment reference, then the payment redirect.
//
// Sub-bookings are persisted before the processor call. If a later insert or
// the checkout itself fails, earlier documents survive as pending orphans
// under the shared reference; there is no multi-document transaction here
// and reconciliation keys on payment_ref.
func (s *bookingService) CreateAggregate(ctx context.Context, userID string, req models.AggregateBookingRequest) (*models.BookingResult, error) {
	uid, err := primitive.ObjectIDFromHex(userID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id: %w", apperr.ErrValidation)
	}
	user, err := s.users.FindByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	adventureID, err := parseID(req.AdventureID, "adventureId")
	if err != nil {
		return nil, err
	}
	if err := s.checkConsent(ctx, req.DeclarationID, adventureID); err != nil {
		return nil, err
	}

	sessionID, err := parseID(req.SessionBooking.Session, "session")
	if err != nil {
		return nil, err
	}
	session, err := s.catalog.FindSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return nil, fmt.Errorf("session %s: %w", req.SessionBooking.Session, apperr.ErrValidation)
		}
		return nil, err
	}
	if session.AdventureID != adventureID {
		return nil, fmt.Errorf("session does not belong to adventure: %w", apperr.ErrValidation)
	}

	groupMembers := make([]primitive.ObjectID, 0, len(req.SessionBooking.GroupMembers))
	for _, m := range req.SessionBooking.GroupMembers {
		id, err := parseID(m, "groupMembers")
		if err != nil {
			return nil, err
		}
		groupMembers = append(groupMembers, id)
	}

	lines := []pricing.Line{pricing.SessionLine{
		Fee:          session.Price,
		GroupMembers: len(groupMembers),
	}}

	itemLines, itemAmount, err := s.resolveItems(ctx, req.ItemBooking)
	if err != nil {
		return nil, err
	}
	for _, l := range itemLines {
		lines = append(lines, pricing.ItemLine{UnitPrice: l.price, Quantity: l.doc.Quantity})
	}

	hotelStays, hotelAmount, err := s.resolveHotels(ctx, req.HotelBooking)
	if err != nil {
		return nil, err
	}
	for _, h := range hotelStays {
		lines = append(lines, pricing.HotelLine{NightlyRate: h.PricePerNight, Nights: h.Nights})
	}

	total := pricing.Total(lines)
	if math.Abs(total-req.TotalAmount) > totalTolerance {
		return nil, fmt.Errorf("submitted total %.2f does not match computed total %.2f: %w",
			req.TotalAmount, total, apperr.ErrValidation)
	}

	ref := uuid.NewString()
	now := time.Now().UTC()

	sb := &models.SessionBooking{
		UserID:        uid,
		SessionID:     session.ID,
		GroupMembers:  groupMembers,
		Amount:        lines[0].Amount(),
		ModeOfPayment: req.ModeOfPayment,
		PaymentRef:    ref,
		Status:        models.BookingStatusPending,
		CreatedAt:     now,
	}
	if err := s.bookings.CreateSessionBooking(ctx, sb); err != nil {
		return nil, err
	}

	if len(itemLines) > 0 {
		docs := make([]models.ItemBookingLine, 0, len(itemLines))
		for _, l := range itemLines {
			docs = append(docs, l.doc)
		}
		ib := &models.ItemBooking{
			UserID:     uid,
			Items:      docs,
			Amount:     itemAmount,
			PaymentRef: ref,
			Status:     models.BookingStatusPending,
			CreatedAt:  now,
		}
		if err := s.bookings.CreateItemBooking(ctx, ib); err != nil {
			return nil, err
		}
	}

	if len(hotelStays) > 0 {
		hb := &models.HotelBooking{
			UserID:     uid,
			Hotels:     hotelStays,
			Amount:     hotelAmount,
			PaymentRef: ref,
			Status:     models.BookingStatusPending,
			CreatedAt:  now,
		}
		if err := s.bookings.CreateHotelBooking(ctx, hb); err != nil {
			return nil, err
		}
	}

	url, err := s.pay.CreateCheckout(ctx, payment.CheckoutRequest{
		Reference: ref,
		Amount:    total,
		Currency:  s.currency,
		Mode:      req.ModeOfPayment,
		Email:     user.Email,
	})
	if err != nil {
		return nil, err
	}

	s.pub.Publish(ctx, events.BookingCreated, map[string]interface{}{
		"userId":     userID,
		"paymentRef": ref,
		"total":      total,
		"mode":       req.ModeOfPayment,
	})

	return &models.BookingResult{
		PaymentRef: ref,
		PaymentURL: url,
		Total:      total,
	}, nil
}

// checkConsent rejects the booking unless the named declaration exists and
// covers the adventure being booked.
func (s *bookingService) checkConsent(ctx context.Context, declarationID string, adventureID primitive.ObjectID) error {
	id, err := parseID(declarationID, "declarationId")
	if err != nil {
		return err
	}
	decl, err := s.declarations.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, apperr.ErrNotFound) {
			return fmt.Errorf("declaration %s: %w", declarationID, apperr.ErrValidation)
		}
		return err
	}
	if !decl.Covers(adventureID) {
		return fmt.Errorf("declaration does not cover this adventure: %w", apperr.ErrValidation)
	}
	return nil
}

type resolvedItemLine struct {
	doc   models.ItemBookingLine
	price float64
}

// resolveItems loads each cart item and prices the line at the catalog
// price, ignoring anything the client claimed.
func (s *bookingService) resolveItems(ctx context.Context, req *models.ItemBookingRequest) ([]resolvedItemLine, float64, error) {
	if req == nil {
		return nil, 0, nil
	}
	var (
		lines  []resolvedItemLine
		amount float64
	)
	for _, line := range req.Items {
		id, err := parseID(line.Item, "items.item")
		if err != nil {
			return nil, 0, err
		}
		item, err := s.catalog.FindItem(ctx, id)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, 0, fmt.Errorf("item %s: %w", line.Item, apperr.ErrValidation)
			}
			return nil, 0, err
		}
		if line.Quantity < 1 {
			return nil, 0, fmt.Errorf("item quantity must be at least 1: %w", apperr.ErrValidation)
		}
		if !line.Purchased {
			if !item.Rentable {
				return nil, 0, fmt.Errorf("item %s is not rentable: %w", item.Name, apperr.ErrValidation)
			}
			if line.StartDate == nil || line.EndDate == nil {
				return nil, 0, fmt.Errorf("rental requires start and end dates: %w", apperr.ErrValidation)
			}
			if !line.EndDate.After(*line.StartDate) {
				return nil, 0, fmt.Errorf("rental end date must be after start date: %w", apperr.ErrValidation)
			}
		}
		lines = append(lines, resolvedItemLine{
			doc: models.ItemBookingLine{
				ItemID:    item.ID,
				Quantity:  line.Quantity,
				Purchased: line.Purchased,
				StartDate: line.StartDate,
				EndDate:   line.EndDate,
			},
			price: item.Price,
		})
		amount += item.Price * float64(line.Quantity)
	}
	return lines, amount, nil
}

// resolveHotels loads each hotel and derives nights and nightly rate from
// the catalog and the submitted date range.
func (s *bookingService) resolveHotels(ctx context.Context, req *models.HotelBookingRequest) ([]models.HotelStay, float64, error) {
	if req == nil {
		return nil, 0, nil
	}
	var (
		stays  []models.HotelStay
		amount float64
	)
	for _, stay := range req.Hotels {
		id, err := parseID(stay.Hotel, "hotels.hotel")
		if err != nil {
			return nil, 0, err
		}
		hotel, err := s.catalog.FindHotel(ctx, id)
		if err != nil {
			if errors.Is(err, apperr.ErrNotFound) {
				return nil, 0, fmt.Errorf("hotel %s: %w", stay.Hotel, apperr.ErrValidation)
			}
			return nil, 0, err
		}
		nights, err := pricing.Nights(stay.CheckInDate, stay.CheckOutDate)
		if err != nil {
			return nil, 0, fmt.Errorf("%v: %w", err, apperr.ErrValidation)
		}
		stays = append(stays, models.HotelStay{
			HotelID:       hotel.ID,
			CheckInDate:   stay.CheckInDate,
			CheckOutDate:  stay.CheckOutDate,
			Nights:        nights,
			PricePerNight: hotel.PricePerNight,
		})
		amount += hotel.PricePerNight * float64(nights)
	}
	return stays, amount, nil
}

func parseID(hex, field string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid %s id: %w", field, apperr.ErrValidation)
	}
	return id, nil
}
