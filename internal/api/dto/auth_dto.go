package dto

import "time"

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse is returned on successful login. The token is also set as an
// HttpOnly cookie; the body copy lets the client mirror decode it for display.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Name      string    `json:"name"`
}

// RegisterRequest payload for new accounts. Any role sent by the client is ignored.
type RegisterRequest struct {
	Names          string `json:"names"`
	Surnames       string `json:"surnames"`
	Email          string `json:"email"`
	Identification string `json:"identification"`
	Password       string `json:"password"`
	Address        string `json:"address"`
	Phone          string `json:"phone"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}
