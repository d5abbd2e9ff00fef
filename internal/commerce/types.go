package commerce

import (
	"bytes"
	"strconv"
	"strings"
	"time"

	"github.com/joseph-ayodele/quotes-tracker/constants"
	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
)

// Customer is a shop customer with billing details.
type Customer struct {
	ExternalID int64
	LastName   string
	FirstName  string
	Email      string
	Phone      string
	Address    string
	PostalCode string
	City       string
	TotalSpent float64
	OrderCount int
}

// FullName is "first last", trimmed.
func (c Customer) FullName() string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

// Order is a shop order, stored as a payment.
type Order struct {
	ExternalID     int64
	Email          string
	Amount         float64
	Method         constants.PaymentMethod
	Status         constants.PaymentStatus
	PaidOn         *entity.Date
	TransactionRef string
}

// amount decodes WooCommerce money fields, which arrive as strings or numbers.
type amount float64

func (a *amount) UnmarshalJSON(b []byte) error {
	b = bytes.Trim(b, `"`)
	if len(b) == 0 || string(b) == "null" {
		*a = 0
		return nil
	}
	v, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return err
	}
	*a = amount(v)
	return nil
}

type wcBilling struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address1  string `json:"address_1"`
	Postcode  string `json:"postcode"`
	City      string `json:"city"`
}

type wcCustomer struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	Billing     wcBilling `json:"billing"`
	TotalSpent  amount    `json:"total_spent"`
	OrdersCount int       `json:"orders_count"`
}

func (w wcCustomer) toCustomer() Customer {
	return Customer{
		ExternalID: w.ID,
		LastName:   firstNonEmpty(w.Billing.LastName, w.LastName),
		FirstName:  firstNonEmpty(w.Billing.FirstName, w.FirstName),
		Email:      w.Email,
		Phone:      w.Billing.Phone,
		Address:    w.Billing.Address1,
		PostalCode: w.Billing.Postcode,
		City:       w.Billing.City,
		TotalSpent: float64(w.TotalSpent),
		OrderCount: w.OrdersCount,
	}
}

type wcOrder struct {
	ID            int64     `json:"id"`
	Status        string    `json:"status"`
	Total         amount    `json:"total"`
	PaymentMethod string    `json:"payment_method"`
	DateCreated   string    `json:"date_created"`
	TransactionID string    `json:"transaction_id"`
	Billing       wcBilling `json:"billing"`
}

func (w wcOrder) toOrder() Order {
	return Order{
		ExternalID:     w.ID,
		Email:          w.Billing.Email,
		Amount:         float64(w.Total),
		Method:         constants.CanonicalPaymentMethod(w.PaymentMethod),
		Status:         constants.CanonicalPaymentStatus(w.Status),
		PaidOn:         parseShopDate(w.DateCreated),
		TransactionRef: w.TransactionID,
	}
}

// parseShopDate accepts RFC 3339 and the zone-less form the shop emits.
func parseShopDate(s string) *entity.Date {
	if s == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			d := entity.NewDate(t.Year(), t.Month(), t.Day())
			return &d
		}
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
