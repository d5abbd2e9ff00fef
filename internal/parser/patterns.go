// Package parser recovers structured quote documents from page text and
// table grids.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	civility = `(?:Mme|M\.|Monsieur|Madame)`
	capWord  = `[A-ZÀ-Ÿ][a-zà-ÿ]+`
	// A euro amount: digits with optional space-grouped thousands and a decimal part.
	amount = `\d+(?:[ \x{a0}\x{202f}]\d{3})*(?:[.,]\d+)?`
	// A label amount as printed in the totals block.
	labelAmount = `(\d[\d \x{a0}\x{202f}.,]*?)\s*€`
	dateValue   = `(\d{2}/\d{2}/\d{4})`
)

var (
	reDocumentNumber = regexp.MustCompile(`N[°º]\s*([A-Z]\d{6}-\d+)`)
	reIssueDate      = regexp.MustCompile(`En date du\s*` + dateValue)
	reExpiryDate     = regexp.MustCompile(`valable jusqu['’]au\s*` + dateValue)

	reClientTitled    = regexp.MustCompile(civility + `\s+(` + capWord + `(?:\s+` + capWord + `)+)`)
	reClientLineStart = regexp.MustCompile(`^` + civility + `\s+[A-ZÀ-Ÿ]`)
	reCivilityPrefix  = regexp.MustCompile(`^` + civility + `\s+`)
	reClientBareName  = regexp.MustCompile(`^` + capWord + `(?:\s+` + capWord + `)+$`)
	reStartsNumber    = regexp.MustCompile(`^\d+\s+`)
	reStartsPostal    = regexp.MustCompile(`^\d{5}\s+`)
	rePostalCode      = regexp.MustCompile(`^\d{5}$`)
	reHasPostal       = regexp.MustCompile(`\d{5}`)
	reHasDigit        = regexp.MustCompile(`\d`)

	reSite = regexp.MustCompile(`Adresse du chantier\s*([^\n]+)\s*([^\n]*)\s*(\d{5})\s*([^\n]+)`)

	reSubArea  = regexp.MustCompile(`^(\d+)\s+(.+?)\s*-\s*([\d.,]+)\s*m²`)
	reCategory = regexp.MustCompile(`^(\d+\.\d+)\s+([A-ZÀÂÄÉÈÊËÏÎÔÙÛÜŸŒÆÇ][a-zàâäéèêëïîôùûüÿœæç\s/'’-]+)$`)
	reLineItem = regexp.MustCompile(`(?s)^(\d+\.\d+\.\d+)\s+(.+?)\s+(\d+(?:[.,]\d+)?)\s+([\p{L}\p{N}_]+)\s+(` +
		amount + `)\s*€\s+([\d.,]+)\s*%\s+(` + amount + `)\s*€`)

	reNetTotal   = regexp.MustCompile(`Total net HT\s*:?\s*` + labelAmount)
	reTax10      = regexp.MustCompile(`TVA\s*\(?\s*10(?:[.,]0+)?\s*%\s*\)?\s*:?\s*` + labelAmount)
	reTax20      = regexp.MustCompile(`TVA\s*\(?\s*20(?:[.,]0+)?\s*%\s*\)?\s*:?\s*` + labelAmount)
	reGrossTotal = regexp.MustCompile(`Total TTC\s*:?\s*` + labelAmount)
)

var spaceStripper = strings.NewReplacer(" ", "", "\u00a0", "", "\u202f", "", "\t", "")

// ParseDecimal parses a French-formatted number. Spaces are thousands
// separators. When a comma is present it is the decimal separator and any
// dots are thousands separators; otherwise a dot is the decimal separator.
func ParseDecimal(s string) (float64, error) {
	clean := spaceStripper.Replace(strings.TrimSpace(s))
	clean = strings.TrimSuffix(strings.TrimSuffix(clean, "€"), "%")
	if strings.Contains(clean, ",") {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.Replace(clean, ",", ".", 1)
	}
	if clean == "" {
		return 0, fmt.Errorf("parse decimal %q: empty", s)
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, fmt.Errorf("parse decimal %q: %w", s, err)
	}
	return v, nil
}

// decimalPtr is ParseDecimal for optional fields: a malformed literal is a miss.
func decimalPtr(s string) *float64 {
	v, err := ParseDecimal(s)
	if err != nil {
		return nil
	}
	return &v
}

// firstGroup returns the first capture of re in text, or "" and false.
func firstGroup(re *regexp.Regexp, text string) (string, bool) {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// splitPostal splits "75001 Paris" into postal code and city. The first
// field must be exactly five digits.
func splitPostal(line string) (postal, city string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) < 2 || !rePostalCode.MatchString(fields[0]) {
		return "", "", false
	}
	return fields[0], strings.Join(fields[1:], " "), true
}
