package model

import "time"

// BookingLock is an advisory lock on one (date, time) slot. The document id
// encodes the slot, so a second insert for the same slot fails with a
// duplicate key until the first holder releases it or the TTL index reaps it.
type BookingLock struct {
	ID        string    `bson:"_id" json:"id"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

func BookingLockID(date, hhmmss string) string {
	return "booking_lock_" + date + "_" + hhmmss
}
