package models

// User represents a player account in the system.
type User struct {
	// ID is the stable user identifier resolved from the auth token.
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// WalletAddress is the optional on-chain wallet linked to the account.
	WalletAddress string `json:"walletAddress" gorm:"column:wallet_address;index"`
	// Balance is the spendable food balance. Never negative.
	Balance int64 `json:"balance" gorm:"column:balance;not null;default:0"`
	// LastClaimAt is the unix-millisecond timestamp of the last daily claim.
	// Zero means the user has never claimed.
	LastClaimAt int64 `json:"lastClaimAt" gorm:"column:last_claim_at"`
	// TotalFeeds counts every feed the user has ever made.
	TotalFeeds int64 `json:"totalFeeds" gorm:"column:total_feeds;not null;default:0"`
	// FeedsToday counts feeds since local midnight. Reset lazily: the stored
	// value only applies while LastFeedDate is on the current local day.
	FeedsToday int `json:"feedsToday" gorm:"column:feeds_today;not null;default:0"`
	// LastFeedDate is the unix-millisecond timestamp of the last feed.
	LastFeedDate int64 `json:"lastFeedDate" gorm:"column:last_feed_date"`
	// TotalPurchased is the cumulative food credited through purchases.
	TotalPurchased int64 `json:"totalPurchased" gorm:"column:total_purchased;not null;default:0"`
	// CreatedAt is the unix-millisecond timestamp of account creation.
	CreatedAt int64 `json:"createdAt" gorm:"column:created_at"`
}
