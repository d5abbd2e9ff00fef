package parser

import (
	"strings"

	"github.com/joseph-ayodele/quotes-tracker/constants"
	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
)

// lookahead is how many lines after the anchor may hold the address block.
const lookahead = 5

// DefaultNoiseMarkers disqualify a line from the client address block.
var DefaultNoiseMarkers = []string{"SIRET", "RAPIDO"}

// ClientStrategy recognizes one client block layout.
type ClientStrategy interface {
	Name() string
	Match(lines []string) (entity.ClientInfo, bool)
}

// ClientExtractor tries its strategies in order and keeps the first match.
type ClientExtractor struct {
	strategies []ClientStrategy
}

// NewClientExtractor builds the default cascade: titled name anywhere in a
// line, title at line start, then a bare capitalized name.
func NewClientExtractor(noiseMarkers []string) *ClientExtractor {
	if len(noiseMarkers) == 0 {
		noiseMarkers = DefaultNoiseMarkers
	}
	return &ClientExtractor{strategies: []ClientStrategy{
		titledNameStrategy{noise: noiseMarkers},
		lineStartTitleStrategy{},
		bareNameStrategy{},
	}}
}

// Extract returns the client block of lines. No match yields a ClientInfo
// with only the client type set.
func (e *ClientExtractor) Extract(lines []string) entity.ClientInfo {
	for _, s := range e.strategies {
		if info, ok := s.Match(lines); ok {
			info.ClientType = constants.ClientTypeIndividual
			return info
		}
	}
	return entity.ClientInfo{ClientType: constants.ClientTypeIndividual}
}

// titledNameStrategy anchors on a civility title followed by two or more
// capitalized words anywhere in a line.
type titledNameStrategy struct {
	noise []string
}

func (titledNameStrategy) Name() string { return "titled-name" }

func (s titledNameStrategy) Match(lines []string) (entity.ClientInfo, bool) {
	for i, line := range lines {
		m := reClientTitled.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			continue
		}
		info := entity.ClientInfo{DisplayName: entity.Ptr(strings.TrimSpace(m[1]))}
		for j := i + 1; j < len(lines) && j <= i+lookahead; j++ {
			next := strings.TrimSpace(lines[j])
			if next == "" || s.isNoise(next) {
				continue
			}
			if info.Address == nil && reStartsNumber.MatchString(next) {
				info.Address = entity.Ptr(next)
				continue
			}
			if reStartsPostal.MatchString(next) {
				if postal, city, ok := splitPostal(next); ok {
					info.PostalCode = entity.Ptr(postal)
					info.City = entity.Ptr(city)
				}
				break
			}
		}
		return info, true
	}
	return entity.ClientInfo{}, false
}

func (s titledNameStrategy) isNoise(line string) bool {
	for _, marker := range s.noise {
		if marker != "" && strings.Contains(line, marker) {
			return true
		}
	}
	return false
}

// lineStartTitleStrategy anchors on a civility title at the start of a line.
type lineStartTitleStrategy struct{}

func (lineStartTitleStrategy) Name() string { return "line-start-title" }

func (lineStartTitleStrategy) Match(lines []string) (entity.ClientInfo, bool) {
	for i, line := range lines {
		clean := strings.TrimSpace(line)
		if !reClientLineStart.MatchString(clean) {
			continue
		}
		info := entity.ClientInfo{DisplayName: entity.Ptr(reCivilityPrefix.ReplaceAllString(clean, ""))}
		if i+1 < len(lines) && reHasDigit.MatchString(lines[i+1]) {
			info.Address = entity.Ptr(strings.TrimSpace(lines[i+1]))
		}
		fillPostal(&info, lines, i+2)
		return info, true
	}
	return entity.ClientInfo{}, false
}

// bareNameStrategy takes a line made only of capitalized words as the name.
type bareNameStrategy struct{}

func (bareNameStrategy) Name() string { return "bare-name" }

func (bareNameStrategy) Match(lines []string) (entity.ClientInfo, bool) {
	for i, line := range lines {
		clean := strings.TrimSpace(line)
		if !reClientBareName.MatchString(clean) {
			continue
		}
		info := entity.ClientInfo{DisplayName: entity.Ptr(clean)}
		if i+1 < len(lines) {
			if addr := strings.TrimSpace(lines[i+1]); addr != "" {
				info.Address = entity.Ptr(addr)
			}
		}
		fillPostal(&info, lines, i+2)
		return info, true
	}
	return entity.ClientInfo{}, false
}

func fillPostal(info *entity.ClientInfo, lines []string, idx int) {
	if idx >= len(lines) || !reHasPostal.MatchString(lines[idx]) {
		return
	}
	if postal, city, ok := splitPostal(lines[idx]); ok {
		info.PostalCode = entity.Ptr(postal)
		info.City = entity.Ptr(city)
	}
}
