package models

// FeedEvent is the append-only audit record written once per committed feed.
type FeedEvent struct {
	ID     string `json:"id" gorm:"column:id;primaryKey"`
	UserID string `json:"userId" gorm:"column:user_id;index"`
	CatID  string `json:"catId" gorm:"column:cat_id;index"`
	// Amount is the feed cost at the time of the feed.
	Amount    int64 `json:"amount" gorm:"column:amount;not null"`
	Timestamp int64 `json:"timestamp" gorm:"column:timestamp;index"`
}

// GlobalStats is the single-row global feed counter.
type GlobalStats struct {
	ID         uint  `json:"-" gorm:"column:id;primaryKey"`
	TotalFeeds int64 `json:"totalFeeds" gorm:"column:total_feeds;not null;default:0"`
}

// Stats is the aggregate payload returned by the public stats endpoint.
type Stats struct {
	TotalFeeds int64 `json:"totalFeeds"`
	TotalCats  int64 `json:"totalCats"`
	HappyCats  int64 `json:"happyCats"`
}
