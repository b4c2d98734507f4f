package models

// ShippingMethod is the delivery option chosen at checkout.
type ShippingMethod string

const (
	ShippingStandard ShippingMethod = "standard"
	ShippingExpress  ShippingMethod = "express"
)

// ShippingDetails is the first checkout step.
type ShippingDetails struct {
	Email     string         `json:"email" validate:"required,email"`
	FirstName string         `json:"firstName" validate:"required,max=100"`
	LastName  string         `json:"lastName" validate:"required,max=100"`
	Address   string         `json:"address" validate:"required,max=200"`
	City      string         `json:"city" validate:"required,max=100"`
	State     string         `json:"state" validate:"required,max=100"`
	ZipCode   string         `json:"zipCode" validate:"required,max=10"`
	Phone     string         `json:"phone" validate:"omitempty,max=20"`
	Method    ShippingMethod `json:"shippingMethod" validate:"required,oneof=standard express"`
}

// PaymentDetails is the second checkout step. It is never persisted.
type PaymentDetails struct {
	CardNumber string `json:"cardNumber" validate:"required,credit_card"`
	CardName   string `json:"cardName" validate:"required,max=100"`
	Expiry     string `json:"expiry" validate:"required,card_expiry"`
	CVV        string `json:"cvv" validate:"required,numeric,min=3,max=4"`
}

// Last4 returns the last four digits of the card number.
func (p PaymentDetails) Last4() string {
	digits := make([]byte, 0, len(p.CardNumber))
	for i := 0; i < len(p.CardNumber); i++ {
		if c := p.CardNumber[i]; c >= '0' && c <= '9' {
			digits = append(digits, c)
		}
	}
	if len(digits) <= 4 {
		return string(digits)
	}
	return string(digits[len(digits)-4:])
}

// CheckoutForm collects every field entered during checkout.
type CheckoutForm struct {
	Shipping ShippingDetails `json:"shipping"`
	Payment  PaymentDetails  `json:"-"`
}
