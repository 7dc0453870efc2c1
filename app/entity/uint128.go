package entity

import (
	"math/big"

	"github.com/shopspring/decimal"
)

// MaxUint128 is 2^128 - 1.
var MaxUint128 = decimal.NewFromBigInt(new(big.Int).Sub(new(big.Int).Lsh(big.NewInt(1), 128), big.NewInt(1)), 0)

// IsUint128 reports whether d is an integer in [0, 2^128).
func IsUint128(d decimal.Decimal) bool {
	return d.IsInteger() && !d.IsNegative() && d.LessThanOrEqual(MaxUint128)
}
