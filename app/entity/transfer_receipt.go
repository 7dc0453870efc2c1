package entity

import "time"

const (
	TransferReceiptProcessed int32 = 10
	TransferReceiptRejected  int32 = 20
)

type TransferReceipt struct {
	ID uint64

	TransferID *string

	ReceiptHash string
	Signature   string
	PayloadJSON string
	Status      int32
	Error       *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
