package models

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Step int

const (
	StepCart      Step = 1
	StepAddress   Step = 2
	StepPayment   Step = 3
	StepCompleted Step = 4
)

func (s Step) String() string {
	switch s {
	case StepCart:
		return "Cart"
	case StepAddress:
		return "Address"
	case StepPayment:
		return "Payment"
	case StepCompleted:
		return "Completed"
	}
	return fmt.Sprintf("Step(%d)", int(s))
}

func (s Step) Valid() bool {
	switch s {
	case StepCart, StepAddress, StepPayment, StepCompleted:
		return true
	}
	return false
}

type Contact struct {
	Mobile string `json:"mobile"`
}

type CheckoutState struct {
	Step     Step            `json:"step"`
	Delivery DeliveryContext `json:"delivery"`
	Promo    *PromoCode      `json:"promo,omitempty"`
	Contact  Contact         `json:"contact"`
	Note     string          `json:"note,omitempty"`
	OrderID  string          `json:"order_id,omitempty"`
	// Celebrate is set once on entry to StepCompleted; the client plays the confetti.
	Celebrate bool `json:"celebrate"`
}

func NewCheckoutState() CheckoutState {
	return CheckoutState{
		Step: StepCart,
		Delivery: DeliveryContext{
			Mode:           DeliveryModeDelivery,
			DeliveryCharge: decimal.Zero,
			Tip:            decimal.Zero,
		},
	}
}

// Reset returns to the cart step but keeps the customer's contact and note.
func (c *CheckoutState) Reset() {
	contact, note := c.Contact, c.Note
	*c = NewCheckoutState()
	c.Contact = contact
	c.Note = note
}

func (c CheckoutState) PromoDiscount() decimal.Decimal {
	if c.Promo == nil {
		return decimal.Zero
	}
	return c.Promo.FinalDiscount
}
