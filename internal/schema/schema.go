// Package schema holds the JSON Schema of a parsed quote document and
// validates records against it before they are persisted.
package schema

import (
	"github.com/joseph-ayodele/quotes-tracker/constants"
)

// BuildQuoteJSONSchema returns the QuoteDocument JSON Schema as a generic map.
func BuildQuoteJSONSchema() map[string]any {
	optString := map[string]any{"type": "string"}
	postal := map[string]any{"type": "string", "pattern": `^\d{5}$`}

	client := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"display_name": map[string]any{"type": "string", "minLength": 1},
			"address":      optString,
			"postal_code":  postal,
			"city":         optString,
			"client_type":  map[string]any{"type": "string", "enum": []string{string(constants.ClientTypeIndividual)}},
		},
		"required": []string{"client_type"},
	}
	site := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"address":     optString,
			"complement":  map[string]any{"type": "string", "pattern": `^\(`},
			"postal_code": postal,
			"city":        optString,
		},
	}
	subArea := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"sequence_id": map[string]any{"type": "string", "pattern": `^\d+$`},
			"name":        map[string]any{"type": "string", "minLength": 1},
			"area_m2":     amountProp(),
		},
		"required": []string{"sequence_id", "name", "area_m2"},
	}
	lineItem := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"line_number":         map[string]any{"type": "string", "pattern": `^\d+\.\d+\.\d+$`},
			"sub_area":            optString,
			"sub_area_m2":         amountProp(),
			"category":            optString,
			"title":               map[string]any{"type": "string", "minLength": 1},
			"description":         optString,
			"quantity":            map[string]any{"type": "number"},
			"unit":                map[string]any{"type": "string", "minLength": 1},
			"unit_price_excl_tax": amountProp(),
			"tax_rate_percent":    amountProp(),
			"total_excl_tax":      amountProp(),
		},
		"required": []string{"line_number", "title", "description", "quantity", "unit",
			"unit_price_excl_tax", "tax_rate_percent", "total_excl_tax"},
	}
	totals := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"net_total":     amountProp(),
			"tax_10":        amountProp(),
			"tax_20":        amountProp(),
			"gross_total":   amountProp(),
			"total_area_m2": amountProp(),
		},
	}

	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"document_number": map[string]any{"type": "string", "pattern": `^[A-Z]\d{6}-\d+$`},
			"issue_date":      dateProp(),
			"expiry_date":     dateProp(),
			"client":          client,
			"site":            site,
			"sub_areas":       map[string]any{"type": "array", "items": subArea},
			"line_items":      map[string]any{"type": "array", "items": lineItem},
			"totals":          totals,
			"source_hash":     map[string]any{"type": "string", "pattern": `^[0-9a-f]{64}$`},
			"source_path":     map[string]any{"type": "string", "minLength": 1},
		},
		"required": []string{"client", "site", "sub_areas", "line_items", "totals", "source_hash", "source_path"},
	}
}

func amountProp() map[string]any {
	return map[string]any{"type": "number", "minimum": 0}
}

func dateProp() map[string]any {
	return map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`}
}
