package load

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/quotes-tracker/constants"
	"github.com/joseph-ayodele/quotes-tracker/internal/commerce"
	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
	"github.com/joseph-ayodele/quotes-tracker/internal/repository"
)

func quote(number, client, hash string) *entity.QuoteDocument {
	doc := &entity.QuoteDocument{
		Client: entity.ClientInfo{City: entity.Ptr("Paris"), ClientType: constants.ClientTypeIndividual},
		SubAreas: []entity.SubArea{
			{SequenceID: "1.1", Name: "Salon", AreaSquareMeters: 25},
		},
		LineItems: []entity.LineItem{
			{LineNumber: "1.1.1", SubAreaRef: entity.Ptr("Salon"), Title: "Peinture", Quantity: 25, Unit: "m2", UnitPriceExclTax: 20, TaxRatePercent: 10, TotalExclTax: 500},
		},
		Totals:     entity.Totals{NetTotal: entity.Ptr(500.0), GrossTotal: entity.Ptr(550.0)},
		SourceHash: hash,
		SourcePath: "/data/" + number + ".pdf",
	}
	if number != "" {
		doc.DocumentNumber = entity.Ptr(number)
	}
	if client != "" {
		doc.Client.DisplayName = entity.Ptr(client)
	}
	return doc
}

func TestMergeClients(t *testing.T) {
	docs := []*entity.QuoteDocument{
		quote("D202401-1", "Marie Dupont", "a"),
		quote("D202401-2", "", "b"),
		quote("D202401-3", "Marie Dupont", "c"),
		quote("D202401-4", "Paul Durand", "d"),
	}
	docs[2].Client.City = entity.Ptr("Lyon")
	customers := []commerce.Customer{
		{ExternalID: 9, FirstName: "Jean", LastName: "Martin", OrderCount: 0},
		{ExternalID: 10, FirstName: "Paul", LastName: "Durand", Email: "paul@example.com", City: "Nantes", OrderCount: 1},
		{ExternalID: 11, FirstName: "Sophie", LastName: "Bernard", OrderCount: 3},
	}

	merged := MergeClients(docs, customers)
	require.Len(t, merged, 3)

	assert.Equal(t, "Marie Dupont", merged[0].Name)
	assert.Equal(t, "Paris", merged[0].City, "first document wins")
	assert.Nil(t, merged[0].ExternalID)

	assert.Equal(t, "Paul Durand", merged[1].Name)
	assert.Equal(t, "Nantes", merged[1].City, "shop customer replaces document client")
	assert.Equal(t, "paul@example.com", merged[1].Email)
	require.NotNil(t, merged[1].ExternalID)
	assert.Equal(t, int64(10), *merged[1].ExternalID)

	assert.Equal(t, "Sophie Bernard", merged[2].Name)
}

func TestTransformDefaults(t *testing.T) {
	doc := quote("D202401-1", "Marie Dupont", "a")
	doc.Totals = entity.Totals{GrossTotal: entity.Ptr(110.0)}

	plan := Transform(Input{
		Documents: []*entity.QuoteDocument{doc},
		Orders: []commerce.Order{
			{ExternalID: 501, Email: "marie@example.com", Amount: 110, Method: constants.PaymentCard, Status: constants.PaymentValidated},
		},
	})

	require.Len(t, plan.Quotes, 1)
	rec := plan.Quotes[0].Record
	assert.Equal(t, "Marie Dupont", plan.Quotes[0].ClientName)
	assert.Equal(t, constants.QuoteStatusPending, rec.Status)
	assert.False(t, rec.ThermalSieve)
	assert.Equal(t, 0.0, rec.NetTotal)
	assert.Equal(t, 0.0, rec.Tax10)
	assert.Equal(t, 0.0, rec.Tax20)
	assert.Equal(t, 110.0, rec.GrossTotal)

	require.Len(t, plan.Payments, 1)
	assert.Equal(t, "marie@example.com", plan.Payments[0].Email)
	assert.Equal(t, int64(501), plan.Payments[0].Record.ExternalOrderID)
}

func openStore(t *testing.T) *repository.DB {
	t.Helper()
	db, err := repository.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "load.db"), nil)
	require.NoError(t, err)
	t.Cleanup(db.Close)
	return db
}

func TestLoad(t *testing.T) {
	db := openStore(t)
	svc := NewService(db, nil, nil)
	ctx := context.Background()

	plan := Transform(Input{
		Documents: []*entity.QuoteDocument{
			quote("D202401-1", "Marie Dupont", "a"),
			quote("D202401-2", "Paul Durand", "b"),
			quote("D202401-1", "Marie Dupont", "c"),
		},
		Customers: []commerce.Customer{
			{ExternalID: 10, FirstName: "Marie", LastName: "Dupont", Email: "marie@example.com", OrderCount: 1},
		},
		Orders: []commerce.Order{
			{ExternalID: 501, Email: "marie@example.com", Amount: 550, Method: constants.PaymentTransfer, Status: constants.PaymentValidated},
			{ExternalID: 502, Email: "nobody@example.com", Amount: 20, Method: constants.PaymentCard, Status: constants.PaymentPending},
		},
	})

	stats, err := svc.Load(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Clients)
	assert.Equal(t, 2, stats.QuotesInserted)
	assert.Equal(t, 1, stats.QuotesSkipped, "same number is stored once")
	assert.Equal(t, 2, stats.SubAreas)
	assert.Equal(t, 2, stats.LineItems)
	assert.Equal(t, 2, stats.PaymentsInserted)

	// a second run is idempotent for quotes and payments
	stats, err = svc.Load(ctx, plan)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.QuotesInserted)
	assert.Equal(t, 3, stats.QuotesSkipped)
	assert.Equal(t, 0, stats.LineItems)
	assert.Equal(t, 0, stats.PaymentsInserted)
	assert.Equal(t, 2, stats.PaymentsSkipped)
}

func TestLoadRejectsInvalidQuotes(t *testing.T) {
	db := openStore(t)
	svc := NewService(db, func(q PlannedQuote) error {
		if q.Record.Document.Number() == "" {
			return errors.New("missing number")
		}
		return nil
	}, nil)

	stats, err := svc.Load(context.Background(), Transform(Input{
		Documents: []*entity.QuoteDocument{
			quote("", "Marie Dupont", "a"),
			quote("D202401-2", "Marie Dupont", "b"),
		},
	}))
	require.NoError(t, err)
	assert.Equal(t, 1, stats.QuotesRejected)
	assert.Equal(t, 1, stats.QuotesInserted)
}

type failingStore struct{ err error }

func (f failingStore) InTx(ctx context.Context, fn func(ctx context.Context, repos *repository.Repositories) error) error {
	return f.err
}

func TestLoadReturnsStoreError(t *testing.T) {
	boom := errors.New("boom")
	stats, err := NewService(failingStore{err: boom}, nil, nil).Load(context.Background(), Plan{})
	assert.ErrorIs(t, err, boom)
	assert.Zero(t, stats.QuotesInserted)
}
