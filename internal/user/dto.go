package user

// RegisterRequest is the payload for creating an account
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the payload for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse carries the issued token and account
type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// SendOTPRequest asks for a verification code by email
type SendOTPRequest struct {
	Email string `json:"email"`
}

// VerifyOTPRequest confirms the emailed code
type VerifyOTPRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

// ResetRequest asks for a password reset link by email
type ResetRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest sets a new password using the emailed token
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}

// UpdateProfileRequest edits the account's username and email
type UpdateProfileRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}
