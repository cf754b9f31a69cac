package models

import "math/big"

// ContractStats is the decoded result of the feeder contract's getStats call.
type ContractStats struct {
	FaucetBalance   string `json:"faucetBalance"`
	CareFundBalance string `json:"careFundBalance"`
	TotalFed        string `json:"totalFed"`
	TotalDecayed    string `json:"totalDecayed"`
	TrackedCats     string `json:"trackedCats"`
}

// ChainService mirrors off-chain actions onto the token and feeder
// contracts. Every method is best-effort from the caller's point of view:
// the off-chain store stays the source of truth for the user-visible result.
type ChainService interface {
	// Enabled reports whether the service holds a signing key and contract
	// addresses. When false, transacting methods fail fast.
	Enabled() bool

	// MirrorFeed records a feed on the feeder contract, acquiring token
	// allowance first when needed.
	MirrorFeed(catID string) (txHash string, err error)

	// ClaimFromFaucet pays the daily allowance out of the on-chain faucet.
	ClaimFromFaucet(recipient string, amount int64) (txHash string, err error)

	// ProcessDecayAll advances bowl decay for up to maxCats cats.
	ProcessDecayAll(maxCats int64) (txHash string, err error)

	ContractStats() (*ContractStats, error)
	TokenBalance(address string) (*big.Int, error)
}

// Notifier announces catalog events out of band.
type Notifier interface {
	AnnounceHungryCat(cat *Cat)
}
