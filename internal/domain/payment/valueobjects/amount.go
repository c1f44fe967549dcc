package valueobjects

import (
	"fmt"
	"strconv"
	"strings"
)

// Amount is a monetary value in the smallest currency unit. The processor
// speaks fixed two-decimal strings; everything internal is cents so that
// formatting round-trips without float drift.
type Amount struct {
	cents    int64
	currency string
}

const defaultCurrency = "MYR"

func NewAmount(cents int64, currency string) Amount {
	if currency == "" {
		currency = defaultCurrency
	}
	return Amount{cents: cents, currency: currency}
}

// ParseAmount parses a processor-style decimal string ("25.50", "25.5",
// "25"). At most two fraction digits are accepted.
func ParseAmount(s string, currency string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Amount{}, fmt.Errorf("empty amount")
	}

	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return Amount{}, fmt.Errorf("amount %q has more than two decimal places", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}

	w, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	f, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return Amount{}, fmt.Errorf("invalid amount %q: %w", s, err)
	}

	cents := w*100 + f
	if neg {
		cents = -cents
	}
	return NewAmount(cents, currency), nil
}

func (a Amount) Cents() int64 {
	return a.cents
}

func (a Amount) Currency() string {
	return a.currency
}

func (a Amount) IsPositive() bool {
	return a.cents > 0
}

// Format renders the fixed two-decimal representation the checksum is
// computed over. No scientific notation, no trailing-zero drift.
func (a Amount) Format() string {
	cents := a.cents
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

func (a Amount) Equals(other Amount) bool {
	return a.cents == other.cents && a.currency == other.currency
}

// DiffersBeyondTolerance reports whether two amounts diverge by more than
// one cent (the 0.01 absolute tolerance for settlement discrepancies).
func (a Amount) DiffersBeyondTolerance(other Amount) bool {
	diff := a.cents - other.cents
	if diff < 0 {
		diff = -diff
	}
	return diff > 1
}

func (a Amount) String() string {
	return fmt.Sprintf("%s %s", a.Format(), a.currency)
}
