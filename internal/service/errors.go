package service

import "errors"

var (
	ErrSellerNotFound     = errors.New("seller not found")
	ErrListingNotFound    = errors.New("listing not found")
	ErrForbidden          = errors.New("not authorized to perform this action")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUsernameTaken      = errors.New("username is already taken")
	ErrEmailTaken         = errors.New("email is already registered")
	ErrWhatsappTaken      = errors.New("whatsapp number is already registered")
	ErrPasswordTooShort   = errors.New("password must be at least 6 characters long")
	ErrInvalidImage       = errors.New("invalid image: upload a JPG, PNG, GIF, or WebP file")
	ErrImageTooLarge      = errors.New("image too large: maximum size is 5MB")
	ErrInvalidResetCode   = errors.New("invalid or expired reset code")
	ErrInvalidResetToken  = errors.New("invalid or expired reset token")
)
