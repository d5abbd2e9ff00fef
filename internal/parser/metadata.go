package parser

import (
	"time"

	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
)

// Metadata is the document header.
type Metadata struct {
	DocumentNumber *string
	IssueDate      *entity.Date
	ExpiryDate     *entity.Date
}

// ExtractMetadata reads the number, issue date and expiry date from the
// first-page text. Each field is independent; a miss leaves it nil.
func ExtractMetadata(text string) Metadata {
	var md Metadata
	if num, ok := firstGroup(reDocumentNumber, text); ok {
		md.DocumentNumber = &num
	}
	if s, ok := firstGroup(reIssueDate, text); ok {
		md.IssueDate = parseDate(s)
	}
	if s, ok := firstGroup(reExpiryDate, text); ok {
		md.ExpiryDate = parseDate(s)
	}
	return md
}

// parseDate parses dd/mm/yyyy. Out-of-range dates yield nil.
func parseDate(s string) *entity.Date {
	t, err := time.ParseInLocation("02/01/2006", s, time.UTC)
	if err != nil {
		return nil
	}
	return &entity.Date{Time: t}
}
