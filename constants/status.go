package constants

// ClientType classifies the billing party of a quote.
type ClientType string

const (
	ClientTypeIndividual ClientType = "INDIVIDUAL"
)

// QuoteStatus is the lifecycle status stored on quote rows.
type QuoteStatus string

// Stable values (store these exact strings in DB).
const (
	QuoteStatusPending  QuoteStatus = "PENDING"  // freshly loaded from a document
	QuoteStatusAccepted QuoteStatus = "ACCEPTED" // signed by the client
	QuoteStatusRejected QuoteStatus = "REJECTED"
)
