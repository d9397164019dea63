package models

import "time"

// User is a row in the PostgreSQL users table.
type User struct {
	ID         string    `json:"id"`
	Username   string    `json:"username"`
	Password   string    `json:"-"` // never serialize
	ShareToken *string   `json:"-"`
	CreatedAt  time.Time `json:"created_at"`
}

// CredentialsRequest is the JSON body for POST /signup and POST /signin.
type CredentialsRequest struct {
	Username string `json:"username" validate:"required,min=3,max=10"`
	Password string `json:"password" validate:"required,min=8,max=20,password"`
}

// SigninResponse is the body returned by POST /signin.
type SigninResponse struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}
