package models

import "time"

// PasswordReset holds the TOTP secret behind a mailed reset code.
type PasswordReset struct {
	Email     string    `bson:"_id" json:"email"`
	Secret    string    `bson:"secret" json:"secret"`
	Attempts  int       `bson:"attempts" json:"attempts"`
	ExpiresAt time.Time `bson:"expires_at" json:"expires_at"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

type ResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type VerifyResetRequest struct {
	Email string `json:"email" validate:"required,email"`
	OTP   string `json:"otp" validate:"required,len=6,numeric"`
}

type ConfirmResetRequest struct {
	Email       string `json:"email" validate:"required,email"`
	OTP         string `json:"otp" validate:"required,len=6,numeric"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}
