// dto.go
package dto

import "order-tracking-service/internal/model"

type RegisterRequest struct {
	Email       string `json:"email" binding:"required"`
	FullName    string `json:"full_name" binding:"required"`
	Password    string `json:"password" binding:"required"`
	PhoneNumber string `json:"phone_number" binding:"required"`
}

// LoginRequest llega como formulario OAuth2 (username = email).
type LoginRequest struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

type UserResponse struct {
	Email       string `json:"email"`
	FullName    string `json:"full_name"`
	PhoneNumber string `json:"phone_number"`
}

func NewUserResponse(u *model.User) UserResponse {
	return UserResponse{
		Email:       u.Email,
		FullName:    u.FullName,
		PhoneNumber: u.PhoneNumber,
	}
}

type CreateOrderRequest struct {
	OwnerEmail  string  `json:"owner_email" binding:"required"`
	Description *string `json:"description"`
}

type UpdateOrderRequest struct {
	Status        string  `json:"status" binding:"required"`
	UpdateMessage *string `json:"update_message"`
}

type StatusResponse struct {
	Status string `json:"status"`
}
