package entity

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateJSON(t *testing.T) {
	d := NewDate(2025, time.January, 15)
	b, err := json.Marshal(struct {
		D *Date `json:"d"`
	}{&d})
	require.NoError(t, err)
	assert.JSONEq(t, `{"d":"2025-01-15"}`, string(b))

	var back Date
	require.NoError(t, json.Unmarshal([]byte(`"2025-01-15"`), &back))
	assert.True(t, back.Equal(d.Time))
	require.Error(t, json.Unmarshal([]byte(`"15/01/2025"`), &back))
}

func TestQuoteDocumentAccessors(t *testing.T) {
	var q QuoteDocument
	assert.Equal(t, "", q.ClientName())
	assert.Equal(t, "", q.Number())
	q.DocumentNumber = Ptr("D202501-001")
	q.Client.DisplayName = Ptr("Marie Dupont")
	assert.Equal(t, "D202501-001", q.Number())
	assert.Equal(t, "Marie Dupont", q.ClientName())
}
