package models

// Credentials is the body of POST /user/login and POST /user/register.
type Credentials struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse carries the opaque session token issued on login/register.
type AuthResponse struct {
	Token string `json:"token"`
}

// Address is a saved delivery address.
type Address struct {
	ID      string `json:"id"`
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// AddressRequest is the body of POST /user/address and PUT /user/address/{id}.
type AddressRequest struct {
	Street  string `json:"street" binding:"required"`
	City    string `json:"city" binding:"required"`
	State   string `json:"state" binding:"required"`
	Zip     string `json:"zip" binding:"required"`
	Country string `json:"country" binding:"required"`
}

// Profile is the response of GET /user/profile.
type Profile struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	IsAdmin   bool      `json:"isAdmin"`
	Addresses []Address `json:"addresses"`
}

// ChangePasswordRequest is the body of PUT /user/password.
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}
