package nftexchange

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
)

// MaxDecimals is the largest supported currency precision.
const MaxDecimals = 18

// SafeAmountToWei converts a human-readable currency amount into integer
// base units without going through float multiplication.
func SafeAmountToWei(amount float64, decimals int) (*big.Int, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("amount must be positive, got: %f", amount)
	}

	if decimals < 0 || decimals > MaxDecimals {
		return nil, fmt.Errorf("decimals must be between 0 and %d, got: %d", MaxDecimals, decimals)
	}

	// Convert to string for precision
	amountStr := strconv.FormatFloat(amount, 'f', -1, 64)

	parts := strings.Split(amountStr, ".")
	if len(parts) > 2 {
		return nil, fmt.Errorf("invalid amount format: %s", amountStr)
	}

	integerPart := parts[0]
	decimalPart := ""
	if len(parts) == 2 {
		decimalPart = parts[1]
	}

	// Pad or truncate decimal part to match decimals
	if len(decimalPart) > decimals {
		decimalPart = decimalPart[:decimals]
	} else {
		decimalPart = decimalPart + strings.Repeat("0", decimals-len(decimalPart))
	}

	combined := integerPart + decimalPart

	result, ok := new(big.Int).SetString(combined, 10)
	if !ok {
		return nil, fmt.Errorf("failed to convert amount to big.Int: %s", combined)
	}

	if result.Sign() <= 0 {
		return nil, fmt.Errorf("calculated amount is zero or negative")
	}

	return result, nil
}
