package entity

import (
	"github.com/joseph-ayodele/quotes-tracker/constants"
)

// QuoteDocument is the structured record recovered from one quote document.
// It is built once per document and never mutated afterwards.
type QuoteDocument struct {
	DocumentNumber *string    `json:"document_number,omitempty"`
	IssueDate      *Date      `json:"issue_date,omitempty"`
	ExpiryDate     *Date      `json:"expiry_date,omitempty"`
	Client         ClientInfo `json:"client"`
	Site           SiteInfo   `json:"site"`
	SubAreas       []SubArea  `json:"sub_areas"`
	LineItems      []LineItem `json:"line_items"`
	Totals         Totals     `json:"totals"`
	SourceHash     string     `json:"source_hash"`
	SourcePath     string     `json:"source_path"`
}

// ClientInfo is the billing party. It is never merged with SiteInfo.
type ClientInfo struct {
	DisplayName *string              `json:"display_name,omitempty"`
	Address     *string              `json:"address,omitempty"`
	PostalCode  *string              `json:"postal_code,omitempty"`
	City        *string              `json:"city,omitempty"`
	ClientType  constants.ClientType `json:"client_type"`
}

// SiteInfo is the job-site address.
type SiteInfo struct {
	Address    *string `json:"address,omitempty"`
	Complement *string `json:"complement,omitempty"`
	PostalCode *string `json:"postal_code,omitempty"`
	City       *string `json:"city,omitempty"`
}

// SubArea is a named area of the job site (a room) with its floor area.
type SubArea struct {
	SequenceID       string  `json:"sequence_id"`
	Name             string  `json:"name"`
	AreaSquareMeters float64 `json:"area_m2"`
}

// LineItem is one priced unit of work. SubAreaRef points at SubArea.Name.
type LineItem struct {
	LineNumber              string   `json:"line_number"`
	SubAreaRef              *string  `json:"sub_area,omitempty"`
	SubAreaAreaSquareMeters *float64 `json:"sub_area_m2,omitempty"`
	Category                *string  `json:"category,omitempty"`
	Title                   string   `json:"title"`
	Description             string   `json:"description"`
	Quantity                float64  `json:"quantity"`
	Unit                    string   `json:"unit"`
	UnitPriceExclTax        float64  `json:"unit_price_excl_tax"`
	TaxRatePercent          float64  `json:"tax_rate_percent"`
	TotalExclTax            float64  `json:"total_excl_tax"`
}

// Totals is the monetary summary of the last page. The parser does not
// reconcile net + taxes against gross.
type Totals struct {
	NetTotal              *float64 `json:"net_total,omitempty"`
	TaxAtRate10           *float64 `json:"tax_10,omitempty"`
	TaxAtRate20           *float64 `json:"tax_20,omitempty"`
	GrossTotal            *float64 `json:"gross_total,omitempty"`
	TotalAreaSquareMeters *float64 `json:"total_area_m2,omitempty"`
}

// ClientName returns the display name or "".
func (q *QuoteDocument) ClientName() string {
	return Deref(q.Client.DisplayName)
}

// Number returns the document number or "".
func (q *QuoteDocument) Number() string {
	return Deref(q.DocumentNumber)
}

// Deref returns the pointed-to string, or "" for nil.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Ptr returns a pointer to v.
func Ptr[T any](v T) *T {
	return &v
}
