package dto

// RegisterRequest describes the sign-up payload.
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest describes the login payload.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AddressRequest describes a delivery address payload.
type AddressRequest struct {
	Label  string  `json:"label"`
	Street string  `json:"street"`
	City   string  `json:"city"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

// AddressResponse describes a stored delivery address.
type AddressResponse struct {
	ID     int64   `json:"id"`
	Label  string  `json:"label,omitempty"`
	Street string  `json:"street"`
	City   string  `json:"city"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}

// ProfileResponse describes the authenticated user.
type ProfileResponse struct {
	ID        int64             `json:"id"`
	Name      string            `json:"name"`
	Email     string            `json:"email"`
	Addresses []AddressResponse `json:"addresses"`
}
