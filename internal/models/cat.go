package models

// MediaType is the kind of media a cat entry carries.
const (
	MediaTypeImage = "image"
	MediaTypeVideo = "video"
)

// Cat represents a user-submitted media entry in the catalog.
type Cat struct {
	// ID is a generated UUID.
	ID string `json:"id" gorm:"column:id;primaryKey"`
	// Name is the display name, non-empty and at most 20 characters.
	Name string `json:"name" gorm:"column:name;not null"`
	// MediaURL points at the uploaded image or video.
	MediaURL string `json:"mediaUrl" gorm:"column:media_url;not null"`
	// MediaType is either image or video.
	MediaType string `json:"mediaType" gorm:"column:media_type;not null"`
	// Vibes are optional tags chosen by the owner.
	Vibes []string `json:"vibes,omitempty" gorm:"column:vibes;serializer:json"`
	// TotalFed counts every feed this cat has received. Monotone.
	TotalFed int64 `json:"totalFed" gorm:"column:total_fed;not null;default:0"`
	// LastFedAt is the unix-millisecond timestamp of the last feed, zero if never fed.
	LastFedAt int64 `json:"lastFedAt" gorm:"column:last_fed_at"`
	// LastAlertAt is the unix-millisecond timestamp of the last hungry-cat
	// announcement for this cat. Not exposed over the API.
	LastAlertAt int64 `json:"-" gorm:"column:last_alert_at"`
	// CreatedAt is the unix-millisecond timestamp of submission.
	CreatedAt int64 `json:"createdAt" gorm:"column:created_at;index"`
	// CreatedBy is the submitting user's ID.
	CreatedBy string `json:"createdBy" gorm:"column:created_by;index"`
}

// Happiness is a derived, time-decaying display label. Never persisted.
type Happiness struct {
	Level string `json:"level"`
	Emoji string `json:"emoji"`
	Label string `json:"label"`
}

// CatWithHappiness is a catalog entry together with its computed happiness.
type CatWithHappiness struct {
	Cat
	Happiness Happiness `json:"happiness"`
}
