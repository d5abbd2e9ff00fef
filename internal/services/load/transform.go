package load

import (
	"github.com/joseph-ayodele/quotes-tracker/constants"
	"github.com/joseph-ayodele/quotes-tracker/internal/commerce"
	"github.com/joseph-ayodele/quotes-tracker/internal/entity"
	"github.com/joseph-ayodele/quotes-tracker/internal/repository"
)

// Input is everything extracted before loading.
type Input struct {
	Documents []*entity.QuoteDocument
	Customers []commerce.Customer
	Orders    []commerce.Order
}

// Plan is the transformed input, ready to write.
type Plan struct {
	Clients  []repository.ClientRecord
	Quotes   []PlannedQuote
	Payments []PlannedPayment
}

// PlannedQuote is a quote whose client is resolved by name at load time.
type PlannedQuote struct {
	ClientName string
	Record     repository.QuoteRecord
}

// PlannedPayment is a payment whose client is resolved by email at load time.
type PlannedPayment struct {
	Email  string
	Record repository.PaymentRecord
}

// Transform merges clients and prepares quote and payment rows.
func Transform(in Input) Plan {
	plan := Plan{Clients: MergeClients(in.Documents, in.Customers)}

	for _, doc := range in.Documents {
		if doc == nil {
			continue
		}
		plan.Quotes = append(plan.Quotes, PlannedQuote{
			ClientName: doc.ClientName(),
			Record: repository.QuoteRecord{
				Document:     doc,
				Status:       constants.QuoteStatusPending,
				ThermalSieve: false,
				NetTotal:     orZero(doc.Totals.NetTotal),
				Tax10:        orZero(doc.Totals.TaxAtRate10),
				Tax20:        orZero(doc.Totals.TaxAtRate20),
				GrossTotal:   orZero(doc.Totals.GrossTotal),
			},
		})
	}

	for _, o := range in.Orders {
		plan.Payments = append(plan.Payments, PlannedPayment{
			Email: o.Email,
			Record: repository.PaymentRecord{
				Amount:          o.Amount,
				Method:          o.Method,
				Status:          o.Status,
				PaidOn:          o.PaidOn,
				TransactionRef:  o.TransactionRef,
				ExternalOrderID: o.ExternalID,
			},
		})
	}
	return plan
}

// MergeClients combines document clients (named only, first occurrence wins)
// with shop customers that placed at least one order. On a name clash the
// shop customer replaces the earlier entry.
func MergeClients(docs []*entity.QuoteDocument, customers []commerce.Customer) []repository.ClientRecord {
	var merged []repository.ClientRecord
	index := map[string]int{}

	for _, doc := range docs {
		if doc == nil {
			continue
		}
		name := doc.ClientName()
		if name == "" {
			continue
		}
		if _, seen := index[name]; seen {
			continue
		}
		index[name] = len(merged)
		merged = append(merged, repository.ClientRecord{
			Name:       name,
			Address:    entity.Deref(doc.Client.Address),
			PostalCode: entity.Deref(doc.Client.PostalCode),
			City:       entity.Deref(doc.Client.City),
			ClientType: doc.Client.ClientType,
		})
	}

	for _, c := range customers {
		name := c.FullName()
		if c.OrderCount <= 0 || name == "" {
			continue
		}
		id := c.ExternalID
		rec := repository.ClientRecord{
			Name:       name,
			FirstName:  c.FirstName,
			Address:    c.Address,
			PostalCode: c.PostalCode,
			City:       c.City,
			ClientType: constants.ClientTypeIndividual,
			Email:      c.Email,
			Phone:      c.Phone,
			ExternalID: &id,
		}
		if i, seen := index[name]; seen {
			merged[i] = rec
			continue
		}
		index[name] = len(merged)
		merged = append(merged, rec)
	}
	return merged
}

func orZero(p *float64) float64 {
	if p == nil {
		return 0
	}
	return *p
}
