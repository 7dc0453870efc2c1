package types

import (
	"context"
	"errors"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-escrow/app/escrow"
	"google.golang.org/grpc/metadata"
)

// The host injects the caller account and the attached native value of every
// call. Values are base-10 strings.
const (
	HeaderCallerAccount   = "X-Caller-Account"
	HeaderAttachedValue   = "X-Attached-Value"
	HeaderLedgerSignature = "X-Ledger-Signature"

	MetadataCallerAccount = "x-caller-account"
	MetadataAttachedValue = "x-attached-value"
)

// MaxAccountLength matches the account columns of the store.
const MaxAccountLength = 128

var (
	ErrMissingCaller = errors.New("caller account is required")
	ErrCallerTooLong = errors.New("caller account must be at most 128 characters")
)

// NewCall builds the call context. An empty attached value means nothing was
// attached.
func NewCall(caller, attached string) (escrow.Call, error) {
	caller = strings.TrimSpace(caller)
	if caller == "" {
		return escrow.Call{}, ErrMissingCaller
	}
	if len(caller) > MaxAccountLength {
		return escrow.Call{}, ErrCallerTooLong
	}

	value := decimal.Zero
	if attached = strings.TrimSpace(attached); attached != "" {
		parsed, err := ParseUint128(attached)
		if err != nil {
			return escrow.Call{}, errors.New("attached value must be an unsigned 128-bit integer")
		}
		value = parsed
	}

	return escrow.Call{Caller: caller, Attached: value}, nil
}

func NewCallFromContext(ctx echo.Context) (escrow.Call, error) {
	header := ctx.Request().Header
	return NewCall(header.Get(HeaderCallerAccount), header.Get(HeaderAttachedValue))
}

func NewCallFromIncomingContext(ctx context.Context) (escrow.Call, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	return NewCall(firstMetadataValue(md, MetadataCallerAccount), firstMetadataValue(md, MetadataAttachedValue))
}

// AppendCallToOutgoingContext is the client side of NewCallFromIncomingContext.
func AppendCallToOutgoingContext(ctx context.Context, caller, attached string) context.Context {
	return metadata.AppendToOutgoingContext(ctx, MetadataCallerAccount, caller, MetadataAttachedValue, attached)
}

func firstMetadataValue(md metadata.MD, key string) string {
	values := md.Get(key)
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
