package dtos

// LoginRequest is the shared email/password login payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// GoogleLoginRequest carries a Google ID token for federated login.
type GoogleLoginRequest struct {
	IDToken string `json:"idToken" validate:"required"`
}

// RequestOTPRequest asks for a one-time login code for a vendor email.
type RequestOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// VerifyOTPRequest exchanges an emailed code for a vendor session.
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}
