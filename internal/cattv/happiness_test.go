package cattv

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestComputeHappiness(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		lastFedAt int64
		level     string
		emoji     string
		label     string
	}{
		{"never fed", 0, "sad", "😿", "Hungry"},
		{"just fed", now.UnixMilli(), "happy", "😸", "Happy"},
		{"five hours ago", now.Add(-5 * time.Hour).UnixMilli(), "happy", "😸", "Happy"},
		{"six hours ago", now.Add(-6 * time.Hour).UnixMilli(), "okay", "🙂", "Okay"},
		{"twenty three hours ago", now.Add(-23 * time.Hour).UnixMilli(), "okay", "🙂", "Okay"},
		{"day ago", now.Add(-24 * time.Hour).UnixMilli(), "sad", "😿", "Hungry"},
		{"week ago", now.Add(-7 * 24 * time.Hour).UnixMilli(), "sad", "😿", "Hungry"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := ComputeHappiness(tt.lastFedAt, now)
			assert.Equal(t, tt.level, h.Level)
			assert.Equal(t, tt.emoji, h.Emoji)
			assert.Equal(t, tt.label, h.Label)
		})
	}
}
