package service

import (
	"regexp"
	"strings"
	"time"

	apperrors "laurent/pkg/errors"
	"laurent/pkg/model"
	"laurent/pkg/sanitizer"
)

const (
	DefaultCustomerName  = "Guest"
	DefaultCustomerEmail = "guest@example.com"
	DefaultTableNumber   = 1
	DefaultGuests        = 1
)

var (
	meridiemRegex  = regexp.MustCompile(`(?i)\s?(AM|PM)$`)
	clockTimeRegex = regexp.MustCompile(`^(\d{1,2}):(\d{2})(?::(\d{2}))?$`)
)

// NormalizeTime reduces the accepted time spellings ("19:30", "7:30 PM",
// "19:30-20:30", "19:30:00") to HH:MM:SS. The meridiem marker is dropped, not
// applied. Anything unrecognised becomes fallback.
func NormalizeTime(value, fallback string) string {
	s := strings.TrimSpace(value)
	if s == "" {
		return fallback
	}
	if start, _, found := strings.Cut(s, "-"); found {
		s = strings.TrimSpace(start)
	}
	s = meridiemRegex.ReplaceAllString(s, "")

	m := clockTimeRegex.FindStringSubmatch(s)
	if m == nil {
		return fallback
	}

	hour, minute, second := m[1], m[2], m[3]
	if len(hour) == 1 {
		hour = "0" + hour
	}
	if second == "" {
		second = "00"
	}
	return hour + ":" + minute + ":" + second
}

// NormalizeDate returns UTC midnight of the given day.
func NormalizeDate(value string) (time.Time, error) {
	if strings.TrimSpace(value) == "" {
		return time.Time{}, apperrors.Validation("Booking date is required", map[string]any{"Date": "Date is required"})
	}
	d, err := model.ParseDate(value)
	if err != nil {
		return time.Time{}, apperrors.Validation("Booking date is invalid", map[string]any{"Date": "Date must be YYYY-MM-DD"})
	}
	return d, nil
}

// bookingFromRequest resolves field aliases and applies creation defaults.
func bookingFromRequest(req *model.BookingRequest, defaultTime string) (*model.Booking, error) {
	date, err := NormalizeDate(req.Date)
	if err != nil {
		return nil, err
	}

	name := sanitizer.NormalizeName(req.CustomerName)
	if name == "" {
		name = sanitizer.NormalizeName(req.FirstName + " " + req.LastName)
	}
	if name == "" {
		name = DefaultCustomerName
	}

	email := sanitizer.NormalizeEmail(firstNonEmpty(req.CustomerEmail, req.Email))
	if email == "" {
		email = DefaultCustomerEmail
	}

	guests := DefaultGuests
	switch {
	case req.Guests != nil:
		guests = req.Guests.Int()
	case req.PartySize != nil:
		guests = req.PartySize.Int()
	}
	if guests == 0 {
		guests = DefaultGuests
	}

	tableNumber := req.TableNumber.Int()
	if tableNumber == 0 {
		tableNumber = DefaultTableNumber
	}

	status := strings.ToLower(strings.TrimSpace(req.Status))
	if status == "" {
		status = model.StatusPending
	}

	return &model.Booking{
		CustomerName:    name,
		CustomerEmail:   email,
		CustomerPhone:   sanitizer.NormalizePhone(firstNonEmpty(req.CustomerPhone, req.Phone)),
		Date:            date,
		Time:            NormalizeTime(req.Time, defaultTime),
		Guests:          guests,
		TableNumber:     tableNumber,
		Status:          status,
		SpecialRequests: sanitizer.NormalizeText(req.SpecialRequests),
	}, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
