package repository

import (
	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-escrow/app/entity"
)

// StorageMeter prices a new payment by the bytes it adds to the store: the
// envelope, its key, a fixed per-row overhead and, when an order id is bound,
// the order index entry.
type StorageMeter struct {
	ByteCost       decimal.Decimal
	RecordOverhead int64
}

func (m StorageMeter) StorageBytes(payment *entity.Payment) (int64, error) {
	envelope, err := EncodeEnvelope(payment)
	if err != nil {
		return 0, err
	}
	size := int64(len(envelope)) + KeySize + m.RecordOverhead
	if payment.OrderID != nil {
		size += 2*KeySize + m.RecordOverhead
	}
	return size, nil
}

func (m StorageMeter) StorageCost(payment *entity.Payment) (decimal.Decimal, error) {
	size, err := m.StorageBytes(payment)
	if err != nil {
		return decimal.Zero, err
	}
	return m.ByteCost.Mul(decimal.NewFromInt(size)), nil
}
