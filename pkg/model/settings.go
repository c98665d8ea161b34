package model

import "time"

const SettingsID = "restaurant"

type OperatingHours struct {
	Weekdays string `json:"weekdays" bson:"weekdays" validate:"max=100"`
	Weekends string `json:"weekends" bson:"weekends" validate:"max=100"`
	Sunday   string `json:"sunday" bson:"sunday" validate:"max=100"`
}

// Settings is the restaurant-wide singleton, stored under SettingsID.
type Settings struct {
	ID                 string         `json:"-" bson:"_id"`
	RestaurantName     string         `json:"name" bson:"restaurant_name"`
	Address            string         `json:"address" bson:"address"`
	Phone              string         `json:"phone" bson:"phone"`
	MaxPartySize       int            `json:"maxPartySize" bson:"max_party_size"`
	BookingAdvanceDays int            `json:"bookingAdvanceDays" bson:"booking_advance_days"`
	TableCount         int            `json:"tableCount" bson:"table_count"`
	OperatingHours     OperatingHours `json:"operatingHours" bson:"operating_hours"`
	CreatedAt          time.Time      `json:"-" bson:"created_at"`
	UpdatedAt          time.Time      `json:"-" bson:"updated_at"`
}

func DefaultSettings() Settings {
	return Settings{
		ID:                 SettingsID,
		RestaurantName:     "Laurent Restaurant",
		Address:            "123 Main Street, City, State 12345",
		Phone:              "+1 (555) 123-4567",
		MaxPartySize:       12,
		BookingAdvanceDays: 30,
		TableCount:         20,
		OperatingHours: OperatingHours{
			Weekdays: "11:00 AM - 10:00 PM",
			Weekends: "11:00 AM - 11:00 PM",
			Sunday:   "12:00 PM - 9:00 PM",
		},
	}
}

// SettingsUpdate applies only the fields present in the request.
type SettingsUpdate struct {
	Name               *string         `json:"name,omitempty" validate:"omitempty,min=1,max=200"`
	Address            *string         `json:"address,omitempty" validate:"omitempty,max=300"`
	Phone              *string         `json:"phone,omitempty" validate:"omitempty,max=32"`
	MaxPartySize       *int            `json:"maxPartySize,omitempty" validate:"omitempty,min=1,max=100"`
	BookingAdvanceDays *int            `json:"bookingAdvanceDays,omitempty" validate:"omitempty,min=0,max=365"`
	TableCount         *int            `json:"tableCount,omitempty" validate:"omitempty,min=1,max=500"`
	OperatingHours     *OperatingHours `json:"operatingHours,omitempty" validate:"omitempty"`
}

func (u *SettingsUpdate) Empty() bool {
	return u.Name == nil && u.Address == nil && u.Phone == nil && u.MaxPartySize == nil &&
		u.BookingAdvanceDays == nil && u.TableCount == nil && u.OperatingHours == nil
}
