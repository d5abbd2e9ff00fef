package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
	"github.com/joseph-ayodele/quotes-tracker/internal/layout"
)

func TestClassifyRow(t *testing.T) {
	tests := []struct {
		line string
		want RowKind
	}{
		{"1 Cuisine - 12.5 m²", RowSubArea},
		{"3 Chambre parentale - 14,20 m²", RowSubArea},
		{"1.1 Revêtements", RowCategory},
		{"2.3 Plomberie / sanitaire", RowCategory},
		{"1.1.1 Peinture murale 10 m2 25,00 € 10.0 % 250,00 €", RowLineItem},
		{"Sous-total Cuisine 250,00 €", RowNoise},
		{"1.1 Revêtements 2025", RowNoise},
		{"Page 1/3", RowNoise},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyRow(tt.line).Kind)
		})
	}
}

func TestTableScenario(t *testing.T) {
	pc := NewParseContext()
	pc.ConsumeTables([]layout.Table{{
		{"DÉSIGNATION", "QTÉ", "PU HT", "TVA", "TOTAL HT"},
		{"1 Cuisine - 12.5 m²"},
		{"1.1 Revêtements"},
		{"1.1.1 Peinture murale 10 m2 25,00 € 10.0 % 250,00 €"},
	}})

	require.Len(t, pc.SubAreas, 1)
	assert.Equal(t, entity.SubArea{SequenceID: "1", Name: "Cuisine", AreaSquareMeters: 12.5}, pc.SubAreas[0])

	require.Len(t, pc.LineItems, 1)
	item := pc.LineItems[0]
	assert.Equal(t, "1.1.1", item.LineNumber)
	assert.Equal(t, "Revêtements", entity.Deref(item.Category))
	assert.Equal(t, "Cuisine", entity.Deref(item.SubAreaRef))
	require.NotNil(t, item.SubAreaAreaSquareMeters)
	assert.Equal(t, 12.5, *item.SubAreaAreaSquareMeters)
	assert.Equal(t, "Peinture murale", item.Title)
	assert.Equal(t, "", item.Description)
	assert.Equal(t, 10.0, item.Quantity)
	assert.Equal(t, "m2", item.Unit)
	assert.Equal(t, 25.0, item.UnitPriceExclTax)
	assert.Equal(t, 10.0, item.TaxRatePercent)
	assert.Equal(t, 250.0, item.TotalExclTax)
	assert.Zero(t, pc.Skipped)
}

func TestTableSubAreaDedup(t *testing.T) {
	pc := NewParseContext()
	pc.ConsumeTables([]layout.Table{
		{{"2 Salle de bain - 6,5 m²"}, {"2.1 Carrelage"}},
		{{"2 Salle de bain - 9 m²"}, {"2.1.1 Faïence murale 6 m² 45,00 € 10 % 270,00 €"}},
	})

	require.Len(t, pc.SubAreas, 1)
	assert.Equal(t, 6.5, pc.SubAreas[0].AreaSquareMeters)
	require.Len(t, pc.LineItems, 1)
	assert.Equal(t, 6.5, *pc.LineItems[0].SubAreaAreaSquareMeters)
	assert.Equal(t, "m²", pc.LineItems[0].Unit)
}

func TestTableStateCarriesAcrossTables(t *testing.T) {
	pages := []layout.Page{
		{Number: 1, Tables: []layout.Table{{{"1 Cuisine - 12.5 m²"}, {"1.1 Revêtements"}}}},
		{Number: 2, Tables: []layout.Table{{{"1.1.2 Plinthes 8 ml 5,00 € 20 % 40,00 €"}}}},
	}
	pc := NewParseContext()
	for _, p := range pages {
		pc.ConsumeTables(p.Tables)
	}

	require.Len(t, pc.LineItems, 1)
	assert.Equal(t, "Revêtements", entity.Deref(pc.LineItems[0].Category))
	assert.Equal(t, "Cuisine", entity.Deref(pc.LineItems[0].SubAreaRef))
}

func TestTableLineItemWithoutContext(t *testing.T) {
	pc := NewParseContext()
	pc.ConsumeRow([]string{"", "  ", "1.1.1 Dépose 2 portes 2 u 50,00 € 20 % 100,00 €"})

	require.Len(t, pc.LineItems, 1)
	item := pc.LineItems[0]
	assert.Nil(t, item.Category)
	assert.Nil(t, item.SubAreaRef)
	assert.Nil(t, item.SubAreaAreaSquareMeters)
	assert.Equal(t, "Dépose 2 portes", item.Title)
	assert.Equal(t, 2.0, item.Quantity)
	assert.Equal(t, "u", item.Unit)
}

func TestTableMultilineDesignation(t *testing.T) {
	pc := NewParseContext()
	pc.ConsumeRow([]string{"1.2.1 Enduit de rebouchage\nReprise des fissures et ponçage 4 m2 12,50 € 10 % 50,00 €"})

	require.Len(t, pc.LineItems, 1)
	assert.Equal(t, "Enduit de rebouchage", pc.LineItems[0].Title)
	assert.Equal(t, "Reprise des fissures et ponçage", pc.LineItems[0].Description)
	assert.Equal(t, 4.0, pc.LineItems[0].Quantity)
}

func TestTableThousandsSeparators(t *testing.T) {
	pc := NewParseContext()
	pc.ConsumeRow([]string{"1.2.1 Carrelage grand format 20 m2 1 250,00 € 20 % 25 000,00 €"})

	require.Len(t, pc.LineItems, 1)
	assert.Equal(t, 1250.0, pc.LineItems[0].UnitPriceExclTax)
	assert.Equal(t, 25000.0, pc.LineItems[0].TotalExclTax)
	assert.Equal(t, 20.0, pc.LineItems[0].TaxRatePercent)
}

func TestTableSkipsHeadersAndNoise(t *testing.T) {
	pc := NewParseContext()
	pc.ConsumeTables([]layout.Table{{
		{"Désignation"},
		{""},
		nil,
		{"Sous-total Cuisine 250,00 €"},
		{"* Conditions de paiement"},
	}})

	assert.Empty(t, pc.SubAreas)
	assert.Empty(t, pc.LineItems)
	assert.Equal(t, 2, pc.Skipped)
}

func TestTableSubAreaHeaderKeepsCategory(t *testing.T) {
	pc := NewParseContext()
	pc.ConsumeTables([]layout.Table{{
		{"1 Cuisine - 10 m²"},
		{"1.1 Peinture"},
		{"2 Séjour - 20 m²"},
		{"2.1.1 Lessivage 20 m2 3,00 € 10 % 60,00 €"},
		{"2.2 Sols"},
		{"2.2.1 Parquet flottant 20 m2 30,00 € 10 % 600,00 €"},
	}})

	require.Len(t, pc.SubAreas, 2)
	require.Len(t, pc.LineItems, 2)
	assert.Equal(t, "Séjour", entity.Deref(pc.LineItems[0].SubAreaRef))
	assert.Equal(t, "Peinture", entity.Deref(pc.LineItems[0].Category))
	assert.Equal(t, "Sols", entity.Deref(pc.LineItems[1].Category))
	assert.Equal(t, 20.0, *pc.LineItems[1].SubAreaAreaSquareMeters)
}
