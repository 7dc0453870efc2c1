package service

import (
	"errors"

	"github.com/vibast-solutions/ms-go-escrow/app/escrow"
)

var (
	ErrNotFound          = escrow.ErrNotFound
	ErrInvalidState      = escrow.ErrInvalidState
	ErrAccessDenied      = escrow.ErrAccessDenied
	ErrInsufficientFunds = escrow.ErrInsufficientFunds
	ErrDuplicateOrder    = escrow.ErrDuplicateOrder
	ErrUnauthorized      = escrow.ErrUnauthorized
	ErrInvalidParameter  = escrow.ErrInvalidParameter

	ErrMediatorNotInitialized     = errors.New("mediator is not initialized")
	ErrMediatorAlreadyInitialized = errors.New("mediator already initialized")
	ErrReceiptRejected            = errors.New("transfer receipt rejected")
)
