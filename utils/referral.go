// utils/referral.go
package utils

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const referralAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// GenerateReferralCode builds a human-readable referral code: up to five
// characters of the customer's name (spaces stripped, "CRM" when empty),
// a dash, and four characters drawn from crypto/rand so codes cannot be
// guessed from the name alone.
func GenerateReferralCode(name string) (string, error) {
	prefix := strings.ToUpper(strings.ReplaceAll(name, " ", ""))
	if runes := []rune(prefix); len(runes) > 5 {
		prefix = string(runes[:5])
	}
	if prefix == "" {
		prefix = "CRM"
	}

	suffix := make([]byte, 4)
	for i := range suffix {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(referralAlphabet))))
		if err != nil {
			return "", fmt.Errorf("referral code suffix: %w", err)
		}
		suffix[i] = referralAlphabet[n.Int64()]
	}

	return prefix + "-" + string(suffix), nil
}
