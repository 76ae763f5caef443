package valueformatter

import (
	"math/big"

	"github.com/shopspring/decimal"

	"github.com/x-xyz/permapi/domain"
)

// nativeDecimals is the precision of the chain native token (wei based)
const nativeDecimals = 18

// FormatNativeValue converts a wei denominated value to its display unit
func FormatNativeValue(value *big.Int) decimal.Decimal {
	return decimal.NewFromBigInt(value, -nativeDecimals)
}

// FormatNativeValueString converts a wei denominated decimal string to its
// display unit. Invalid input surfaces as ErrInvalidNumberFormat.
func FormatNativeValueString(value string) (decimal.Decimal, error) {
	nums, err := domain.ToBigInt([]string{value})
	if err != nil {
		return decimal.Zero, err
	}
	return FormatNativeValue(nums[0]), nil
}
