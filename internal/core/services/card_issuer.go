package services

import (
	"fmt"
	"math/rand"
)

// CheckDigitSum computes the Luhn-style checksum of the given digits: every
// digit at an even index (counting from the left) is doubled, then 9 is
// subtracted from every digit greater than 9, and the results are summed.
// The doubling runs left to right, not right to left as in the textbook
// Luhn algorithm; validation and generation both depend on this variant.
func CheckDigitSum(digits []int) int {
	ds := make([]int, len(digits))
	copy(ds, digits)
	for i := 0; i < len(ds); i += 2 {
		ds[i] *= 2
	}
	// Second pass covers every position, doubled or not.
	for i := range ds {
		if ds[i] > 9 {
			ds[i] -= 9
		}
	}
	sum := 0
	for _, d := range ds {
		sum += d
	}
	return sum
}

// IsValidCardNumber reports whether number is a digit string whose checksum
// is divisible by 10.
func IsValidCardNumber(number string) bool {
	digits, err := toDigits(number)
	if err != nil {
		return false
	}
	return CheckDigitSum(digits)%10 == 0
}

// CardNumberForPayload assembles the card number for the given BIN and
// 9-digit payload: the check digit is chosen so that the full number
// satisfies IsValidCardNumber.
func CardNumberForPayload(bin string, payload int64) string {
	candidate := fmt.Sprintf("%s%09d0", bin, payload)
	digits, _ := toDigits(candidate)
	check := (10 - CheckDigitSum(digits)%10) % 10
	return fmt.Sprintf("%s%09d%d", bin, payload, check)
}

// CardIssuer produces new card numbers and PINs.
type CardIssuer struct {
	bin string
	rnd *rand.Rand
}

// NewCardIssuer creates an issuer for the given BIN prefix using the given
// randomness source.
func NewCardIssuer(bin string, rnd *rand.Rand) *CardIssuer {
	return &CardIssuer{bin: bin, rnd: rnd}
}

// NewCardNumber draws random payloads until the assembled number is not in
// existing. Uniqueness is guaranteed only against the supplied set; the
// caller supplies the complete set of numbers already issued.
func (ci *CardIssuer) NewCardNumber(existing map[string]struct{}) string {
	for {
		payload := ci.rnd.Int63n(999_999_999) + 1
		number := CardNumberForPayload(ci.bin, payload)
		if _, ok := existing[number]; !ok {
			return number
		}
	}
}

// NewPIN returns a uniformly random 4-digit PIN, zero-padded.
func (ci *CardIssuer) NewPIN() string {
	return fmt.Sprintf("%04d", ci.rnd.Intn(10000))
}

func toDigits(number string) ([]int, error) {
	digits := make([]int, 0, len(number))
	for _, r := range number {
		if r < '0' || r > '9' {
			return nil, fmt.Errorf("card number contains non-digit %q", r)
		}
		digits = append(digits, int(r-'0'))
	}
	return digits, nil
}
