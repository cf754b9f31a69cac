package notificator

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/0xZumii/cat-tv/internal/models"
	"github.com/0xZumii/cat-tv/pkg/logger"
)

func TestAnnounceHungryCatWithoutTelegramIsNoop(t *testing.T) {
	n := NewNotificator(logger.NewNop(), nil)

	assert.NotPanics(t, func() {
		n.AnnounceHungryCat(&models.Cat{Name: "Whiskers"})
	})
}

func TestSafeCallRecoversPanics(t *testing.T) {
	n := NewNotificator(logger.NewNop(), nil)

	assert.NotPanics(t, func() {
		n.safeCall(func() { panic("telegram exploded") }, "test")
	})
}
