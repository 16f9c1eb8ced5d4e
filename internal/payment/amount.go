package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
)

// maxPrice bounds accepted prices well inside int64 cents.
const maxPrice = 1e12

var ErrInvalidPrice = errors.New("price must be a number")

// MinorUnits converts a decimal currency amount to an integer count of
// minor units (cents), truncating toward zero. The conversion is exact on the
// decimal literal, so 19.99 becomes 1999.
func MinorUnits(price json.Number) (int64, error) {
	f, err := strconv.ParseFloat(price.String(), 64)
	if err != nil || math.Abs(f) > maxPrice {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, price)
	}
	r, ok := new(big.Rat).SetString(price.String())
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPrice, price)
	}
	r.Mul(r, big.NewRat(100, 1))

	// Quo truncates toward zero.
	return new(big.Int).Quo(r.Num(), r.Denom()).Int64(), nil
}
