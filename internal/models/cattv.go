package models

// ClaimResult is the response payload of a successful daily claim.
type ClaimResult struct {
	Claimed int64 `json:"claimed"`
	// Balance is the new off-chain balance. Meaningful in db ledger mode.
	Balance int64 `json:"balance"`
	// TxHash is set in chain ledger mode, where the faucet payout is the
	// authoritative grant.
	TxHash string `json:"txHash,omitempty"`
}

// FeedResult is the response payload of a successful feed.
type FeedResult struct {
	Balance        int64  `json:"balance"`
	FeedsRemaining int    `json:"feedsRemaining"`
	Message        string `json:"message"`
}

// CheckoutResult is the response payload of checkout session creation.
type CheckoutResult struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url"`
}

// WebhookEvent is a verified payment-provider event.
type WebhookEvent struct {
	Type      string
	SessionID string
	PaymentID string
	Metadata  map[string]string
}

// PaymentProvider wraps the card-payment service.
type PaymentProvider interface {
	// Configured reports whether provider credentials are present.
	Configured() bool
	// CreateSession opens a checkout session for the tier and returns its
	// id and redirect URL.
	CreateSession(userID string, tier Tier, successURL, cancelURL string) (sessionID, url string, err error)
	// VerifyEvent checks the delivery signature over the raw payload and
	// decodes the event. Fails on any signature mismatch.
	VerifyEvent(payload []byte, sigHeader string) (*WebhookEvent, error)
}

// CatTV is the application core consumed by the HTTP layer.
type CatTV interface {
	GetOrCreateUser(userID, walletAddress string) (*User, error)
	ClaimDaily(userID string) (*ClaimResult, error)
	Feed(userID, catID string) (*FeedResult, error)

	AddCat(userID, name, mediaURL, mediaType string, vibes []string) (*Cat, error)
	UpdateCatVibes(userID, catID string, vibes []string) (*Cat, error)
	ListCats() ([]*CatWithHappiness, error)
	Stats() (*Stats, error)

	PurchaseTiers() []Tier
	CreateCheckout(userID, tierID, successURL, cancelURL string) (*CheckoutResult, error)
	HandleWebhookEvent(event *WebhookEvent) error

	TriggerDecay(maxCats int64) (string, error)
	ContractStats() (*ContractStats, error)
	// TokenBalance reads the caller's on-chain token balance, floored to
	// whole tokens for display as food.
	TokenBalance(userID string) (int64, error)

	// Start launches the background maintenance loops (decay schedule,
	// stale purchase pruning, hungry cat alerts).
	Start()
	Stop()
}

// APIServer is the HTTP front of the application.
type APIServer interface {
	Start()
	Shutdown() error
}
