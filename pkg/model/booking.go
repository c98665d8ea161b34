package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	StatusPending   = "pending"
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
	StatusCompleted = "completed"

	DateLayout = "2006-01-02"
)

// Booking is a stored reservation. Date is always UTC midnight and Time is
// always HH:MM:SS.
type Booking struct {
	ID              string    `json:"id,omitempty" bson:"_id,omitempty"`
	CustomerName    string    `json:"customerName" bson:"customer_name" validate:"required,min=1,max=100"`
	CustomerEmail   string    `json:"customerEmail" bson:"customer_email" validate:"required,email,max=254"`
	CustomerPhone   string    `json:"customerPhone,omitempty" bson:"customer_phone,omitempty" validate:"omitempty,max=32"`
	Date            time.Time `json:"date" bson:"date" validate:"required"`
	Time            string    `json:"time" bson:"time" validate:"required,booking_time"`
	Guests          int       `json:"guests" bson:"guests" validate:"required,min=1"`
	TableNumber     int       `json:"tableNumber" bson:"table_number" validate:"required,min=1"`
	Status          string    `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled completed"`
	SpecialRequests string    `json:"specialRequests" bson:"special_requests" validate:"max=1000"`
	CreatedAt       time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt       time.Time `json:"updatedAt" bson:"updated_at"`
}

// ParseDate accepts YYYY-MM-DD or an RFC3339 timestamp and returns UTC
// midnight of the calendar day in UTC.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if d, err := time.Parse(DateLayout, value); err == nil {
		return d, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", value)
	}
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

// HHMM is the booking time truncated to hours and minutes.
func (b *Booking) HHMM() string {
	if len(b.Time) < 5 {
		return b.Time
	}
	return b.Time[:5]
}

func (b *Booking) DateString() string {
	return b.Date.UTC().Format(DateLayout)
}

type BookingResponse struct {
	ID              string    `json:"id"`
	CustomerName    string    `json:"customerName"`
	CustomerEmail   string    `json:"customerEmail"`
	CustomerPhone   *string   `json:"customerPhone"`
	Date            string    `json:"date"`
	Time            string    `json:"time"`
	Guests          int       `json:"guests"`
	TableNumber     int       `json:"tableNumber"`
	Status          string    `json:"status"`
	SpecialRequests string    `json:"specialRequests"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (b *Booking) Response() BookingResponse {
	var phone *string
	if b.CustomerPhone != "" {
		p := b.CustomerPhone
		phone = &p
	}
	return BookingResponse{
		ID:              b.ID,
		CustomerName:    b.CustomerName,
		CustomerEmail:   b.CustomerEmail,
		CustomerPhone:   phone,
		Date:            b.DateString(),
		Time:            b.Time,
		Guests:          b.Guests,
		TableNumber:     b.TableNumber,
		Status:          b.Status,
		SpecialRequests: b.SpecialRequests,
		CreatedAt:       b.CreatedAt,
	}
}

// BookingRequest is the loosely-typed create payload accepted from the public
// site and the admin panel. Several aliases map onto the same field.
type BookingRequest struct {
	CustomerName    string   `json:"customerName"`
	FirstName       string   `json:"firstName"`
	LastName        string   `json:"lastName"`
	CustomerEmail   string   `json:"customerEmail"`
	Email           string   `json:"email"`
	CustomerPhone   string   `json:"customerPhone"`
	Phone           string   `json:"phone"`
	Date            string   `json:"date"`
	Time            string   `json:"time"`
	Guests          *FlexInt `json:"guests"`
	PartySize       *FlexInt `json:"partysize"`
	TableNumber     *FlexInt `json:"tableNumber"`
	Status          string   `json:"status"`
	SpecialRequests string   `json:"specialRequests"`
}

// BookingUpdate carries a partial update. Nil fields are left untouched.
type BookingUpdate struct {
	CustomerName    *string  `json:"customerName,omitempty" validate:"omitempty,min=1,max=100"`
	CustomerEmail   *string  `json:"customerEmail,omitempty" validate:"omitempty,email,max=254"`
	CustomerPhone   *string  `json:"customerPhone,omitempty" validate:"omitempty,max=32"`
	Date            *string  `json:"date,omitempty"`
	Time            *string  `json:"time,omitempty"`
	Guests          *FlexInt `json:"guests,omitempty"`
	TableNumber     *FlexInt `json:"tableNumber,omitempty"`
	Status          *string  `json:"status,omitempty" validate:"omitempty,oneof=pending confirmed cancelled completed"`
	SpecialRequests *string  `json:"specialRequests,omitempty" validate:"omitempty,max=1000"`
}

type BookingAnalytics struct {
	TotalBookings    int64    `json:"totalBookings"`
	AveragePartySize float64  `json:"averagePartySize"`
	PeakHours        []string `json:"peakHours"`
}

// FlexInt decodes from a JSON number or a numeric string. Form posts send
// party sizes as strings.
type FlexInt int

func (f *FlexInt) UnmarshalJSON(data []byte) error {
	raw := strings.TrimSpace(string(data))
	if raw == "null" || raw == `""` {
		*f = 0
		return nil
	}
	raw = strings.Trim(raw, `"`)

	if n, err := strconv.Atoi(strings.TrimSpace(raw)); err == nil {
		*f = FlexInt(n)
		return nil
	}

	if v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64); err == nil {
		*f = FlexInt(int(v))
		return nil
	}
	return fmt.Errorf("invalid integer value %q", raw)
}

func (f *FlexInt) Int() int {
	if f == nil {
		return 0
	}
	return int(*f)
}
