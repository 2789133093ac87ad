package dto

import (
	"strings"
	"time"

	"github.com/polkiloo/weddingmart/internal/domain/model"
)

// RegisterRequest describes the sign-up payload. The web client sends phoneNumber,
// phone is accepted as well.
type RegisterRequest struct {
	Name        string `json:"name"`
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	PhoneNumber string `json:"phoneNumber"`
	Phone       string `json:"phone"`
}

// Registration converts the payload into domain input.
func (r RegisterRequest) Registration() model.Registration {
	phone := strings.TrimSpace(r.PhoneNumber)
	if phone == "" {
		phone = strings.TrimSpace(r.Phone)
	}
	return model.Registration{
		Name:     r.Name,
		Email:    r.Email,
		Password: r.Password,
		Phone:    phone,
	}
}

// LoginRequest describes email/password payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries an issued token.
type AuthResponse struct {
	Token string        `json:"token"`
	User  *UserResponse `json:"user,omitempty"`
}

// UserResponse is the public view of an account.
type UserResponse struct {
	ID        string    `json:"_id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phoneNumber,omitempty"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUserResponse maps user without its credentials. Nil yields nil.
func NewUserResponse(u *model.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Phone:     u.Phone,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}
