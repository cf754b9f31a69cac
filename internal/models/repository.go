package models

import "time"

// FeedOutcome is what the feed transaction returns once it has committed.
type FeedOutcome struct {
	User           *User
	Cat            *Cat
	FeedsRemaining int
}

// Repository is the persistence layer. Claim, feed and purchase completion
// are single atomic transactions on the backing store.
type Repository interface {
	Close() error

	// GetOrCreateUser returns the user record, creating a zero-balance one
	// on first access. Idempotent.
	GetOrCreateUser(userID string) (*User, error)
	GetUser(userID string) (*User, error)
	SetUserWallet(userID, walletAddress string) error

	// ClaimDaily atomically grants amount to the user unless the cooldown
	// since the last claim has not elapsed.
	ClaimDaily(userID string, amount int64, cooldown time.Duration) (*User, error)

	// ReserveClaim stamps the claim cooldown without moving balance, for
	// ledgers where the payout happens elsewhere. Returns the previous
	// LastClaimAt so a failed payout can be reverted.
	ReserveClaim(userID string, cooldown time.Duration) (prevLastClaimAt int64, err error)
	// RevertClaim restores LastClaimAt after a failed external payout.
	RevertClaim(userID string, lastClaimAt int64) error

	// Feed runs the feed transaction: debit the actor, credit the cat and
	// the global counter, append the audit event. All-or-nothing.
	Feed(userID, catID string, cost int64, maxDailyFeeds int) (*FeedOutcome, error)

	AddCat(cat *Cat) error
	GetCat(catID string) (*Cat, error)
	ListCats(limit int) ([]*Cat, error)
	CountCats() (int64, error)
	CountCatsFedSince(fedSince int64) (int64, error)
	UpdateCatVibes(catID string, vibes []string) (*Cat, error)
	SetCatAlertedAt(catID string, ts int64) error

	// ListHungryCats returns cats last fed before fedBefore whose last
	// hungry announcement is older than alertedBefore.
	ListHungryCats(fedBefore, alertedBefore int64) ([]*Cat, error)

	GetGlobalStats() (*GlobalStats, error)

	CreatePurchase(p *Purchase) error
	GetPurchase(sessionID string) (*Purchase, error)
	// CompletePurchase credits the buyer and flips the row to completed.
	// Returns false without crediting when the row is already completed, so
	// webhook redelivery never double-credits.
	CompletePurchase(sessionID, paymentID string) (bool, error)
	RemoveStalePendingPurchases(createdBefore int64) error

	// AcquireLock takes the named DB lock for ttl. Returns false when
	// another live instance holds it.
	AcquireLock(name, instanceID string, ttl time.Duration) (bool, error)
	ReleaseLock(name, instanceID string) error
}
