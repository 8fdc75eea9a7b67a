package enums

import "fmt"

// CheckoutStep is a position in the linear checkout flow.
type CheckoutStep string

const (
	CheckoutStepShipping     CheckoutStep = "shipping"
	CheckoutStepPayment      CheckoutStep = "payment"
	CheckoutStepConfirmation CheckoutStep = "confirmation"
)

var checkoutStepOrder = []CheckoutStep{
	CheckoutStepShipping,
	CheckoutStepPayment,
	CheckoutStepConfirmation,
}

// String implements fmt.Stringer.
func (c CheckoutStep) String() string {
	return string(c)
}

// IsValid reports whether the value is a known CheckoutStep.
func (c CheckoutStep) IsValid() bool {
	return c.index() >= 0
}

// Number returns the 1-based position of the step, or 0 when unknown.
func (c CheckoutStep) Number() int {
	return c.index() + 1
}

// Previous returns the step before c and false when c is the first step or unknown.
func (c CheckoutStep) Previous() (CheckoutStep, bool) {
	idx := c.index()
	if idx <= 0 {
		return "", false
	}
	return checkoutStepOrder[idx-1], true
}

// Following returns the step after c and false when c is terminal or unknown.
func (c CheckoutStep) Following() (CheckoutStep, bool) {
	idx := c.index()
	if idx < 0 || idx == len(checkoutStepOrder)-1 {
		return "", false
	}
	return checkoutStepOrder[idx+1], true
}

func (c CheckoutStep) index() int {
	for i, candidate := range checkoutStepOrder {
		if candidate == c {
			return i
		}
	}
	return -1
}

// ParseCheckoutStep converts raw input into a CheckoutStep.
func ParseCheckoutStep(value string) (CheckoutStep, error) {
	for _, candidate := range checkoutStepOrder {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid checkout step %q", value)
}
