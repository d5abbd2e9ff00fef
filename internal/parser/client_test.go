package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/quotes-tracker/constants"
	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
)

func TestClientTitledName(t *testing.T) {
	lines := []string{
		"N° D202501-001",
		"En date du 15/01/2025",
		"Mme Marie Dupont",
		"12 rue des Fleurs",
		"75001 Paris",
	}
	info := NewClientExtractor(nil).Extract(lines)

	assert.Equal(t, "Marie Dupont", entity.Deref(info.DisplayName))
	assert.Equal(t, "12 rue des Fleurs", entity.Deref(info.Address))
	assert.Equal(t, "75001", entity.Deref(info.PostalCode))
	assert.Equal(t, "Paris", entity.Deref(info.City))
	assert.Equal(t, constants.ClientTypeIndividual, info.ClientType)
}

func TestClientTitledNameSkipsNoise(t *testing.T) {
	lines := []string{
		"Client : Monsieur Paul Henri Martin",
		"",
		"55 RAPIDO DEVIS SARL",
		"SIRET 812 345 678 00012",
		"3 impasse du Moulin",
		"69003 Lyon",
		"9 rue ignorée",
	}
	info := NewClientExtractor(nil).Extract(lines)

	assert.Equal(t, "Paul Henri Martin", entity.Deref(info.DisplayName))
	assert.Equal(t, "3 impasse du Moulin", entity.Deref(info.Address))
	assert.Equal(t, "69003", entity.Deref(info.PostalCode))
	assert.Equal(t, "Lyon", entity.Deref(info.City))
}

func TestClientCustomNoiseMarkers(t *testing.T) {
	lines := []string{"Mme Marie Dupont", "4 ACME BATIMENT", "12 rue des Fleurs", "75001 Paris"}
	info := NewClientExtractor([]string{"ACME"}).Extract(lines)
	assert.Equal(t, "12 rue des Fleurs", entity.Deref(info.Address))
}

func TestClientLookaheadIsBounded(t *testing.T) {
	lines := []string{"Mme Marie Dupont", "a", "b", "c", "d", "e", "75001 Paris"}
	info := NewClientExtractor(nil).Extract(lines)
	assert.Equal(t, "Marie Dupont", entity.Deref(info.DisplayName))
	assert.Nil(t, info.Address)
	assert.Nil(t, info.PostalCode)
}

func TestClientLineStartTitle(t *testing.T) {
	lines := []string{"M. DUPONT Jean", "8 allée des Pins", "33000 Bordeaux"}
	info := NewClientExtractor(nil).Extract(lines)

	assert.Equal(t, "DUPONT Jean", entity.Deref(info.DisplayName))
	assert.Equal(t, "8 allée des Pins", entity.Deref(info.Address))
	assert.Equal(t, "33000", entity.Deref(info.PostalCode))
	assert.Equal(t, "Bordeaux", entity.Deref(info.City))
}

func TestClientLineStartTitleWithoutDigits(t *testing.T) {
	lines := []string{"Madame LEROY", "Résidence les Tilleuls", "Bât C 59000"}
	info := NewClientExtractor(nil).Extract(lines)

	assert.Equal(t, "LEROY", entity.Deref(info.DisplayName))
	assert.Nil(t, info.Address)
	assert.Nil(t, info.PostalCode, "postal code must lead the line")
}

func TestClientBareName(t *testing.T) {
	lines := []string{"DEVIS", "Sophie Bernard", "Lieu-dit Les Granges", "24200 Sarlat"}
	info := NewClientExtractor(nil).Extract(lines)

	assert.Equal(t, "Sophie Bernard", entity.Deref(info.DisplayName))
	assert.Equal(t, "Lieu-dit Les Granges", entity.Deref(info.Address))
	assert.Equal(t, "24200", entity.Deref(info.PostalCode))
	assert.Equal(t, "Sarlat", entity.Deref(info.City))
}

func TestClientStrategyPriorityIgnoresLineOrder(t *testing.T) {
	lines := []string{
		"Jean Martin",
		"5 avenue Victor Hugo",
		"13001 Marseille",
		"Destinataire Mme Marie Dupont",
		"12 rue des Fleurs",
		"75001 Paris",
	}
	info := NewClientExtractor(nil).Extract(lines)

	assert.Equal(t, "Marie Dupont", entity.Deref(info.DisplayName))
	assert.Equal(t, "75001", entity.Deref(info.PostalCode))
}

func TestClientNoMatch(t *testing.T) {
	info := NewClientExtractor(nil).Extract([]string{"DEVIS", "", "1234", "page 1/2"})
	assert.Nil(t, info.DisplayName)
	assert.Nil(t, info.Address)
	assert.Nil(t, info.PostalCode)
	assert.Nil(t, info.City)
	assert.Equal(t, constants.ClientTypeIndividual, info.ClientType)
}

func TestClientStrategyNames(t *testing.T) {
	e := NewClientExtractor(nil)
	require.Len(t, e.strategies, 3)
	names := make([]string, 0, len(e.strategies))
	for _, s := range e.strategies {
		names = append(names, s.Name())
	}
	assert.Equal(t, []string{"titled-name", "line-start-title", "bare-name"}, names)
}
