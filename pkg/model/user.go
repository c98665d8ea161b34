package model

import "time"

const (
	RoleAdmin = "admin"
	RoleStaff = "staff"

	AdminUsername = "admin"
)

type User struct {
	ID           string    `json:"id,omitempty" bson:"_id,omitempty"`
	Username     string    `json:"username" bson:"username" validate:"required,min=3,max=50"`
	PasswordHash string    `json:"-" bson:"password"`
	Role         string    `json:"role" bson:"role" validate:"required,oneof=admin staff"`
	Name         string    `json:"name" bson:"name" validate:"max=100"`
	LastPage     string    `json:"lastPage" bson:"last_page"`
	CreatedAt    time.Time `json:"-" bson:"created_at"`
	UpdatedAt    time.Time `json:"-" bson:"updated_at"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Name     string `json:"name"`
	LastPage string `json:"lastPage"`
}

func (u *User) Response() UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Role:     u.Role,
		Name:     u.Name,
		LastPage: u.LastPage,
	}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type PageRequest struct {
	UserID string `json:"userId"`
	Page   string `json:"page"`
}
