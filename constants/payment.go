package constants

import "strings"

// PaymentMethod is the canonical payment method stored on payment rows.
type PaymentMethod string

const (
	PaymentStripe   PaymentMethod = "STRIPE"
	PaymentPaypal   PaymentMethod = "PAYPAL"
	PaymentTransfer PaymentMethod = "TRANSFER"
	PaymentCheque   PaymentMethod = "CHEQUE"
	PaymentCash     PaymentMethod = "CASH"
	PaymentCard     PaymentMethod = "CARD"
)

// PaymentStatus is the canonical payment status stored on payment rows.
type PaymentStatus string

const (
	PaymentValidated PaymentStatus = "VALIDATED"
	PaymentPending   PaymentStatus = "PENDING"
	PaymentFailed    PaymentStatus = "FAILED"
	PaymentRefunded  PaymentStatus = "REFUNDED"
)

var paymentMethods = map[string]PaymentMethod{
	"stripe": PaymentStripe,
	"paypal": PaymentPaypal,
	"bacs":   PaymentTransfer,
	"cheque": PaymentCheque,
	"cod":    PaymentCash,
}

var paymentStatuses = map[string]PaymentStatus{
	"completed":  PaymentValidated,
	"processing": PaymentPending,
	"on-hold":    PaymentPending,
	"pending":    PaymentPending,
	"failed":     PaymentFailed,
	"cancelled":  PaymentFailed,
	"refunded":   PaymentRefunded,
}

// CanonicalPaymentMethod maps a shop gateway id to a payment method. Unknown gateways are cards.
func CanonicalPaymentMethod(gateway string) PaymentMethod {
	if m, ok := paymentMethods[strings.ToLower(strings.TrimSpace(gateway))]; ok {
		return m
	}
	return PaymentCard
}

// CanonicalPaymentStatus maps a shop order status to a payment status. Unknown statuses are pending.
func CanonicalPaymentStatus(status string) PaymentStatus {
	if s, ok := paymentStatuses[strings.ToLower(strings.TrimSpace(status))]; ok {
		return s
	}
	return PaymentPending
}
