package services

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// PaymentCodeGenerator produces processor-visible correlation identifiers.
type PaymentCodeGenerator interface {
	Generate() string
}

type DefaultPaymentCodeGenerator struct{}

func NewPaymentCodeGenerator() PaymentCodeGenerator {
	return &DefaultPaymentCodeGenerator{}
}

// Generate returns a payment code with a high-entropy suffix. Codes are
// guessable-resistant rather than sequential: they are echoed back by the
// processor on unauthenticated surfaces.
func (g *DefaultPaymentCodeGenerator) Generate() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("HP-PAY-%s", suffix)
}
