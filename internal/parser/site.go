package parser

import (
	"strings"

	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
)

// ExtractSite reads the job-site block introduced by "Adresse du chantier"
// from the first-page text. The complement line is kept only when it is
// parenthesized.
func ExtractSite(text string) entity.SiteInfo {
	m := reSite.FindStringSubmatch(text)
	if m == nil {
		return entity.SiteInfo{}
	}
	site := entity.SiteInfo{
		Address:    entity.Ptr(strings.TrimSpace(m[1])),
		PostalCode: entity.Ptr(m[3]),
		City:       entity.Ptr(strings.TrimSpace(m[4])),
	}
	if c := strings.TrimSpace(m[2]); strings.HasPrefix(c, "(") {
		site.Complement = &c
	}
	return site
}
