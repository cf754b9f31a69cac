package cattv

import (
	"time"

	"github.com/0xZumii/cat-tv/internal/models"
)

// Happiness decays with time since the last feed: under 6 hours the cat is
// happy, under 24 hours okay, after that hungry. Never-fed cats are hungry.
func ComputeHappiness(lastFedAt int64, now time.Time) models.Happiness {
	if lastFedAt == 0 {
		return models.Happiness{Level: "sad", Emoji: "😿", Label: "Hungry"}
	}

	hoursSinceFed := time.Duration(now.UnixMilli()-lastFedAt) * time.Millisecond

	if hoursSinceFed < 6*time.Hour {
		return models.Happiness{Level: "happy", Emoji: "😸", Label: "Happy"}
	}
	if hoursSinceFed < 24*time.Hour {
		return models.Happiness{Level: "okay", Emoji: "🙂", Label: "Okay"}
	}
	return models.Happiness{Level: "sad", Emoji: "😿", Label: "Hungry"}
}
