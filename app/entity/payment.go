package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus int32

const (
	PaymentStatusUnspecified PaymentStatus = 0
	PaymentStatusRequesting  PaymentStatus = 1
	PaymentStatusPaid        PaymentStatus = 2
	PaymentStatusConfirmed   PaymentStatus = 3
	PaymentStatusClaimed     PaymentStatus = 4
)

var paymentStatusNames = map[PaymentStatus]string{
	PaymentStatusRequesting: "REQUESTING",
	PaymentStatusPaid:       "PAID",
	PaymentStatusConfirmed:  "CONFIRMED",
	PaymentStatusClaimed:    "CLAIMED",
}

func (s PaymentStatus) String() string {
	if name, ok := paymentStatusNames[s]; ok {
		return name
	}
	return "UNSPECIFIED"
}

func (s PaymentStatus) Valid() bool {
	_, ok := paymentStatusNames[s]
	return ok
}

func ParsePaymentStatus(raw string) (PaymentStatus, bool) {
	for status, name := range paymentStatusNames {
		if name == raw {
			return status, true
		}
	}
	return PaymentStatusUnspecified, false
}

// Payment is one escrow transaction. Only the fields up to Status are part of
// the persisted envelope; timestamps live on the storage row.
type Payment struct {
	ID      decimal.Decimal
	OrderID *decimal.Decimal

	Shop string
	User string

	Message string
	Fee     decimal.Decimal

	Status PaymentStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p *Payment) Clone() *Payment {
	if p == nil {
		return nil
	}
	c := *p
	if p.OrderID != nil {
		orderID := *p.OrderID
		c.OrderID = &orderID
	}
	return &c
}
