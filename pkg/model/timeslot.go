package model

import (
	"encoding/json"
	"strings"
	"time"
)

// CanonicalSlots lists the bookable ranges in lookup order. Ranges may
// overlap; lookups take the first match.
var CanonicalSlots = []string{
	"07:30-08:30", "08:30-09:30", "09:30-10:30",
	"12:00-13:00", "13:00-14:00", "13:30-14:30",
	"15:30-16:30", "16:30-17:30",
	"17:30-18:30", "18:30-19:30",
	"19:30-20:30", "20:30-21:30", "21:30-22:30",
}

// ContainingSlot returns the first canonical range with start <= hhmm < end.
// Comparison is lexicographic on zero-padded HH:MM strings.
func ContainingSlot(hhmm string) (string, bool) {
	for _, slot := range CanonicalSlots {
		start, end, _ := strings.Cut(slot, "-")
		if hhmm >= start && hhmm < end {
			return slot, true
		}
	}
	return "", false
}

// DefaultSlotSettings marks every canonical slot available.
func DefaultSlotSettings() map[string]bool {
	slots := make(map[string]bool, len(CanonicalSlots))
	for _, slot := range CanonicalSlots {
		slots[slot] = true
	}
	return slots
}

// TimeSlotPolicy holds availability for one date, or the global default when
// Date is nil.
type TimeSlotPolicy struct {
	ID           string          `json:"-" bson:"_id,omitempty"`
	Date         *string         `json:"date" bson:"date"`
	SlotSettings map[string]bool `json:"slotSettings" bson:"slot_settings"`
	CreatedAt    time.Time       `json:"-" bson:"created_at"`
	UpdatedAt    time.Time       `json:"-" bson:"updated_at"`
}

// Availability returns the stored value for slot. ok is false when the policy
// does not mention it.
func (p *TimeSlotPolicy) Availability(slot string) (available bool, ok bool) {
	if p == nil || p.SlotSettings == nil {
		return false, false
	}
	available, ok = p.SlotSettings[slot]
	return available, ok
}

// FlexBool decodes any JSON value by truthiness: false, 0, "", and null are
// false; everything else is true.
type FlexBool bool

func (f *FlexBool) UnmarshalJSON(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*f = false
	case bool:
		*f = FlexBool(t)
	case float64:
		*f = FlexBool(t != 0)
	case string:
		*f = FlexBool(t != "")
	default:
		*f = true
	}
	return nil
}

// SlotSettingsFrom converts a loosely typed availability body.
func SlotSettingsFrom(raw map[string]FlexBool) map[string]bool {
	slots := make(map[string]bool, len(raw))
	for label, available := range raw {
		slots[label] = bool(available)
	}
	return slots
}
