package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

const (
	PaymentModeRevolut = "revolut"
	PaymentModePayPal  = "paypal"
)

// SessionBooking is the instructor/session part of a checkout.
type SessionBooking struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID   `bson:"user_id" json:"userId"`
	SessionID     primitive.ObjectID   `bson:"session" json:"session"`
	GroupMembers  []primitive.ObjectID `bson:"group_members,omitempty" json:"groupMembers,omitempty"`
	Amount        float64              `bson:"amount" json:"amount"`
	ModeOfPayment string               `bson:"mode_of_payment" json:"modeOfPayment"`
	PaymentRef    string               `bson:"payment_ref" json:"paymentRef"`
	Status        string               `bson:"status" json:"status"`
	CreatedAt     time.Time            `bson:"created_at" json:"createdAt"`
}

// ItemBookingLine is one purchased or rented item within an item booking.
type ItemBookingLine struct {
	ItemID    primitive.ObjectID `bson:"item" json:"item"`
	Quantity  int                `bson:"quantity" json:"quantity"`
	Purchased bool               `bson:"purchased" json:"purchased"`
	StartDate *time.Time         `bson:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate   *time.Time         `bson:"end_date,omitempty" json:"endDate,omitempty"`
}

type ItemBooking struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"userId"`
	Items      []ItemBookingLine  `bson:"items" json:"items"`
	Amount     float64            `bson:"amount" json:"amount"`
	PaymentRef string             `bson:"payment_ref" json:"paymentRef"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

// HotelStay is one hotel reservation within a hotel booking.
type HotelStay struct {
	HotelID       primitive.ObjectID `bson:"hotel" json:"hotel"`
	CheckInDate   time.Time          `bson:"check_in_date" json:"checkInDate"`
	CheckOutDate  time.Time          `bson:"check_out_date" json:"checkOutDate"`
	Nights        int                `bson:"nights" json:"nights"`
	PricePerNight float64            `bson:"price_per_night" json:"pricePerNight"`
}

type HotelBooking struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"userId"`
	Hotels     []HotelStay        `bson:"hotels" json:"hotels"`
	Amount     float64            `bson:"amount" json:"amount"`
	PaymentRef string             `bson:"payment_ref" json:"paymentRef"`
	Status     string             `bson:"status" json:"status"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

// AggregateBookingRequest is the client-composed checkout bundle. It exists
// only for the duration of one submission; the server decomposes it into the
// per-domain booking documents above.
type AggregateBookingRequest struct {
	SessionBooking SessionBookingRequest `json:"sessionBooking" validate:"required"`
	ItemBooking    *ItemBookingRequest   `json:"itemBooking,omitempty"`
	HotelBooking   *HotelBookingRequest  `json:"hotelBooking,omitempty"`
	TotalAmount    float64               `json:"totalAmount" validate:"gte=0"`
	ModeOfPayment  string                `json:"modeOfPayment" validate:"required,oneof=revolut paypal"`
	AdventureID    string                `json:"adventureId" validate:"required"`
	DeclarationID  string                `json:"declarationId" validate:"required"`
}

type SessionBookingRequest struct {
	Session      string   `json:"session" validate:"required"`
	GroupMembers []string `json:"groupMembers"`
}

type ItemBookingRequest struct {
	Items []ItemLineRequest `json:"items" validate:"min=1,dive"`
}

type ItemLineRequest struct {
	Item      string     `json:"item" validate:"required"`
	Quantity  int        `json:"quantity" validate:"required,min=1"`
	Purchased bool       `json:"purchased"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
}

type HotelBookingRequest struct {
	Hotels []HotelStayRequest `json:"hotels" validate:"min=1,dive"`
}

type HotelStayRequest struct {
	Hotel        string    `json:"hotel" validate:"required"`
	CheckInDate  time.Time `json:"checkInDate" validate:"required"`
	CheckOutDate time.Time `json:"checkOutDate" validate:"required"`
}

// BookingResult is returned to the client after a successful aggregate
// submission; the browser navigates to PaymentURL.
type BookingResult struct {
	PaymentRef string  `json:"paymentRef"`
	PaymentURL string  `json:"paymentUrl"`
	Total      float64 `json:"total"`
}
