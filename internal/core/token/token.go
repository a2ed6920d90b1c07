// Package token generates placeholder fulfilment artifacts: electricity
// tokens and voucher codes. These are locally generated stand-ins, not
// issued by a settlement network.
//
// math/rand is deliberate parity with the original behavior. If these
// codes ever carry real redemption value the source must move to
// crypto/rand; do not rely on them being unpredictable.
package token

import (
	"math/rand"
	"strings"
)

const charset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func group() string {
	b := make([]byte, 4)
	for i := range b {
		b[i] = charset[rand.Intn(len(charset))]
	}
	return string(b)
}

func groups(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = group()
	}
	return strings.Join(parts, "-")
}

// Electricity returns a PLN prepaid token, XXXX-XXXX-XXXX-XXXX.
func Electricity() string {
	return groups(4)
}

// GameVoucher returns a game voucher code, GAME-XXXX-XXXX-XXXX.
func GameVoucher() string {
	return "GAME-" + groups(3)
}

// FoodVoucher returns a food voucher code, FOOD-XXXX-XXXX-XXXX.
func FoodVoucher() string {
	return "FOOD-" + groups(3)
}
