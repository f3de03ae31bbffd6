package token

import (
	"math/big"

	"github.com/iov-one/custody/errors"
	"github.com/shopspring/decimal"
)

// FormatAmount renders a base unit amount as a decimal string, ie. 1500
// with 2 decimals is "15".
func FormatAmount(amount uint64, decimals uint8) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(amount), -int32(decimals)).String()
}

// ParseAmount converts a decimal string into base units. Amounts with more
// fractional digits than decimals are rejected with ErrPrecision.
func ParseAmount(s string, decimals uint8) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, errors.Wrapf(errors.ErrAmount, "cannot parse %q", s)
	}
	if d.IsNegative() {
		return 0, errors.Wrapf(errors.ErrAmount, "negative amount %q", s)
	}
	units := d.Shift(int32(decimals))
	if !units.Equal(units.Truncate(0)) {
		return 0, errors.Wrapf(errors.ErrPrecision, "%q has more than %d decimals", s, decimals)
	}
	n := units.BigInt()
	if !n.IsUint64() {
		return 0, errors.Wrapf(errors.ErrOverflow, "%q", s)
	}
	return n.Uint64(), nil
}
