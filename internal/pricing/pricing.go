// Package pricing computes booking totals as a pure function of the
// selected session, items and hotel stays.
package pricing

import (
	"errors"
	"time"
)

const (
	// GroupMemberFee is the flat surcharge per additional group member.
	GroupMemberFee = 30.0
	// PlatformFeeRate is applied to the subtotal when a session is present.
	// It is reported as a separate informational component and is not part
	// of the charged total.
	PlatformFeeRate = 0.12
)

// ErrInvalidStay rejects stays that span less than one night.
var ErrInvalidStay = errors.New("check-out must be at least one day after check-in")

// Line is one priced component of a booking. The variants form a closed set;
// callers switch on the concrete type rather than probing fields.
type Line interface {
	Amount() float64
}

// SessionLine is the instructor fee plus the per-member group surcharge.
type SessionLine struct {
	Fee          float64
	GroupMembers int
}

func (l SessionLine) Amount() float64 {
	return l.Fee + GroupMemberFee*float64(l.GroupMembers)
}

// ItemLine is one cart item, bought or rented.
type ItemLine struct {
	UnitPrice float64
	Quantity  int
}

func (l ItemLine) Amount() float64 {
	return l.UnitPrice * float64(l.Quantity)
}

// HotelLine is one hotel stay.
type HotelLine struct {
	NightlyRate float64
	Nights      int
}

func (l HotelLine) Amount() float64 {
	return l.NightlyRate * float64(l.Nights)
}

// Total sums all lines. The total is strictly additive; the platform fee is
// never folded in.
func Total(lines []Line) float64 {
	var total float64
	for _, l := range lines {
		total += l.Amount()
	}
	return total
}

// PlatformFee returns the informational platform fee for a total. It is zero
// unless an instructor session is part of the booking.
func PlatformFee(total float64, hasSession bool) float64 {
	if !hasSession {
		return 0
	}
	return total * PlatformFeeRate
}

// Nights returns the whole calendar-day difference between check-in and
// check-out. Same-day and inverted ranges are rejected: a zero-night stay is
// not a valid hotel selection.
func Nights(checkIn, checkOut time.Time) (int, error) {
	in := toDate(checkIn)
	out := toDate(checkOut)
	n := int(out.Sub(in).Hours() / 24)
	if n < 1 {
		return 0, ErrInvalidStay
	}
	return n, nil
}

func toDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
