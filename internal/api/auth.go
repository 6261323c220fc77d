package api

// SignInRequest is the payload for POST /api/auth/signin.
type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignInResponse carries the token pair plus the signed-in user's profile.
// QR-login confirmation returns the same shape.
type SignInResponse struct {
	UserProfile
	TokenEnvelope
}

// SignUpRequest is the payload for POST /api/auth/signup.
type SignUpRequest struct {
	Username  string `json:"username" validate:"required,min=3"`
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8"`
	FirstName string `json:"firstName" validate:"required"`
	LastName  string `json:"lastName" validate:"required"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// RefreshTokenRequest is the payload for POST /api/auth/refreshtoken.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" validate:"required"`
}

// RefreshTokenResponse is the new token pair issued for a refresh token.
type RefreshTokenResponse struct {
	TokenEnvelope
}

// MessageResponse is the generic `{"message": ...}` body the backend uses for
// acknowledgements and errors alike.
type MessageResponse struct {
	Message string `json:"message"`
}
