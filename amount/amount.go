package amount

import (
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"
	"strings"
)

var (
	ErrParse         = errors.New("parse error")
	ErrValueOverflow = errors.New("value overflow")
)

// Zero returns new zero value.
func Zero() *big.Int {
	return new(big.Int)
}

// ParseBig parses decimal string in to the non negative arbitrary precision integer.
// Leading zeros are accepted, sign characters, spaces and fractions are not.
func ParseBig(s string) (*big.Int, error) {
	if s == "" {
		return nil, errors.Join(ErrParse, errors.New("empty amount"))
	}
	if strings.IndexFunc(s, func(r rune) bool { return r < '0' || r > '9' }) != -1 {
		return nil, errors.Join(ErrParse, fmt.Errorf("amount %q is not a non negative decimal", s))
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, errors.Join(ErrParse, fmt.Errorf("amount %q cannot be parsed", s))
	}
	return v, nil
}

// ParseInt64 parses decimal string in to the signed 64 bit integer.
func ParseInt64(s string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Join(ErrParse, err)
	}
	return v, nil
}

// AddInt64 adds two signed integers returning ErrValueOverflow if the sum wraps around.
func AddInt64(a, b int64) (int64, error) {
	if b > 0 && a > math.MaxInt64-b {
		return 0, ErrValueOverflow
	}
	if b < 0 && a < math.MinInt64-b {
		return 0, ErrValueOverflow
	}
	return a + b, nil
}

// FromInt64 converts signed integer to the arbitrary precision integer.
// Negative values cannot represent an amount.
func FromInt64(v int64) (*big.Int, error) {
	if v < 0 {
		return nil, errors.Join(ErrParse, fmt.Errorf("negative amount %d", v))
	}
	return big.NewInt(v), nil
}

// ToBytes returns big endian magnitude of v, the ledger representation of an amount.
func ToBytes(v *big.Int) []byte {
	if v == nil {
		return []byte{}
	}
	return v.Bytes()
}

// FromBytes reads big endian magnitude in to the arbitrary precision integer.
func FromBytes(b []byte) *big.Int {
	return new(big.Int).SetBytes(b)
}

// String returns canonical decimal representation of v.
func String(v *big.Int) string {
	if v == nil {
		return "0"
	}
	return v.Text(10)
}

// Sum adds all values in to the new integer.
func Sum(values ...*big.Int) *big.Int {
	total := Zero()
	for _, v := range values {
		if v == nil {
			continue
		}
		total.Add(total, v)
	}
	return total
}
