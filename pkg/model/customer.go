package model

import "time"

// Customer is keyed by email. Visits and LastVisit are maintained by booking
// creation; admins may also edit them directly.
type Customer struct {
	ID        string     `json:"id,omitempty" bson:"_id,omitempty"`
	Name      string     `json:"name" bson:"name" validate:"required,min=1,max=100"`
	Email     string     `json:"email" bson:"email" validate:"required,email,max=254"`
	Phone     string     `json:"phone,omitempty" bson:"phone,omitempty" validate:"omitempty,max=32"`
	Visits    int        `json:"visits" bson:"visits" validate:"min=0"`
	LastVisit *time.Time `json:"lastVisit,omitempty" bson:"last_visit,omitempty"`
	CreatedAt time.Time  `json:"createdAt" bson:"created_at"`
	UpdatedAt time.Time  `json:"updatedAt" bson:"updated_at"`
}

type CustomerUpdate struct {
	Name      *string `json:"name,omitempty" validate:"omitempty,min=1,max=100"`
	Email     *string `json:"email,omitempty" validate:"omitempty,email,max=254"`
	Phone     *string `json:"phone,omitempty" validate:"omitempty,max=32"`
	Visits    *int    `json:"visits,omitempty" validate:"omitempty,min=0"`
	LastVisit *string `json:"lastVisit,omitempty"`
}

type CustomerRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Visits    *int   `json:"visits"`
	LastVisit string `json:"lastVisit"`
}

type CustomerResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Visits    int    `json:"visits"`
	LastVisit string `json:"lastVisit"`
}

const NeverVisited = "Never"

func (c *Customer) Response() CustomerResponse {
	lastVisit := NeverVisited
	if c.LastVisit != nil && !c.LastVisit.IsZero() {
		lastVisit = c.LastVisit.UTC().Format(DateLayout)
	}
	return CustomerResponse{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Visits:    c.Visits,
		LastVisit: lastVisit,
	}
}
