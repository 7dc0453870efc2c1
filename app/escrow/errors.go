package escrow

import "errors"

var (
	ErrNotFound          = errors.New("payment not found")
	ErrInvalidState      = errors.New("invalid status")
	ErrAccessDenied      = errors.New("access denied")
	ErrInsufficientFunds = errors.New("insufficient attached value")
	ErrDuplicateOrder    = errors.New("order already bound to a payment")
	ErrUnauthorized      = errors.New("caller is not the mediator owner")
	ErrInvalidParameter  = errors.New("invalid parameter")
)
