package models

// Purchase statuses. A row moves pending -> completed exactly once.
const (
	PurchasePending   = "pending"
	PurchaseCompleted = "completed"
)

// Purchase tracks a checkout session from creation to payment confirmation.
type Purchase struct {
	// SessionID is the payment provider's checkout session id.
	SessionID string `json:"sessionId" gorm:"column:session_id;primaryKey"`
	UserID    string `json:"userId" gorm:"column:user_id;index"`
	TierID    string `json:"tierId" gorm:"column:tier_id"`
	// Cattv is the food amount credited when the purchase completes.
	Cattv    int64  `json:"cattv" gorm:"column:cattv;not null"`
	PriceUSD int64  `json:"priceUsd" gorm:"column:price_usd"`
	Status   string `json:"status" gorm:"column:status;index;not null"`
	// PaymentID is the provider's payment reference, set on completion.
	PaymentID   string `json:"paymentId,omitempty" gorm:"column:payment_id"`
	CreatedAt   int64  `json:"createdAt" gorm:"column:created_at;index"`
	CompletedAt int64  `json:"completedAt,omitempty" gorm:"column:completed_at"`
}

// Tier is one entry of the static price-to-credit table.
type Tier struct {
	ID          string `json:"id"`
	PriceUSD    int64  `json:"priceUsd"`
	PriceCents  int64  `json:"-"`
	Cattv       int64  `json:"cattv"`
	CatsCanFeed int64  `json:"catsCanFeed"`
	Label       string `json:"label"`
}
