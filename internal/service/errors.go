package service

import "errors"

var (
	ErrInvalidInput           = errors.New("invalid input")
	ErrUnauthorized           = errors.New("not allowed to access this resource")
	ErrCartNotFound           = errors.New("cart not found")
	ErrCartNotPayable         = errors.New("cart is not open for checkout")
	ErrAmountMismatch         = errors.New("amount does not match cart total")
	ErrPaymentNotFound        = errors.New("payment not found")
	ErrProductNotFound        = errors.New("product not found")
	ErrProductUnavailable     = errors.New("product is not available or insufficient stock")
	ErrProductNotInCart       = errors.New("product not in cart")
	ErrUserExists             = errors.New("user already exists")
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidCredentials     = errors.New("invalid email or password")
	ErrInvalidVerifyToken     = errors.New("invalid or expired verification token")
	ErrVerificationInProgress = errors.New("payment verification already in progress")
	ErrVerificationExhausted  = errors.New("could not settle payment, try again later")
)
