package parser

import (
	"regexp"

	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
)

// ExtractTotals reads the totals block of the last-page text. Labels that
// are missing leave their field nil; nothing defaults to zero here.
// TotalAreaSquareMeters is left to the caller.
func ExtractTotals(text string) entity.Totals {
	return entity.Totals{
		NetTotal:    labelled(reNetTotal, text),
		TaxAtRate10: labelled(reTax10, text),
		TaxAtRate20: labelled(reTax20, text),
		GrossTotal:  labelled(reGrossTotal, text),
	}
}

func labelled(re *regexp.Regexp, text string) *float64 {
	s, ok := firstGroup(re, text)
	if !ok {
		return nil
	}
	return decimalPtr(s)
}

// TotalArea sums the sub-area surfaces, or nil when there are none.
func TotalArea(subAreas []entity.SubArea) *float64 {
	if len(subAreas) == 0 {
		return nil
	}
	var sum float64
	for _, sa := range subAreas {
		sum += sa.AreaSquareMeters
	}
	return &sum
}
