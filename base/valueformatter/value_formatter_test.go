package valueformatter

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/x-xyz/permapi/domain"
)

func TestFormatNativeValue(t *testing.T) {
	oneEther, _ := new(big.Int).SetString("1000000000000000000", 10)
	assert.Equal(t, "1", FormatNativeValue(oneEther).String())

	halfEther, _ := new(big.Int).SetString("500000000000000000", 10)
	assert.Equal(t, "0.5", FormatNativeValue(halfEther).String())

	assert.Equal(t, "0", FormatNativeValue(big.NewInt(0)).String())
}

func TestFormatNativeValueString(t *testing.T) {
	d, err := FormatNativeValueString("2000000000000000000")
	assert.NoError(t, err)
	assert.Equal(t, "2", d.String())

	_, err = FormatNativeValueString("not-a-number")
	assert.Equal(t, domain.ErrInvalidNumberFormat, err)
}
