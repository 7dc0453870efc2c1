package repository

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/vibast-solutions/ms-go-escrow/app/entity"
)

// KeySize is the width of a 128-bit storage key. Keys are big-endian so the
// byte order of keys matches the numeric order of ids.
const KeySize = 16

var ErrInvalidKey = errors.New("value is not an unsigned 128-bit integer")

func EncodeKey(v decimal.Decimal) ([]byte, error) {
	if !entity.IsUint128(v) {
		return nil, ErrInvalidKey
	}
	return v.BigInt().FillBytes(make([]byte, KeySize)), nil
}

func DecodeKey(b []byte) (decimal.Decimal, error) {
	if len(b) != KeySize {
		return decimal.Zero, ErrInvalidKey
	}
	return decimal.NewFromBigInt(new(big.Int).SetBytes(b), 0), nil
}

func nullableKeyValue(v *decimal.Decimal) (interface{}, error) {
	if v == nil {
		return nil, nil
	}
	return EncodeKey(*v)
}

func keyPtrFromBytes(b []byte) (*decimal.Decimal, error) {
	if b == nil {
		return nil, nil
	}
	v, err := DecodeKey(b)
	if err != nil {
		return nil, err
	}
	return &v, nil
}
