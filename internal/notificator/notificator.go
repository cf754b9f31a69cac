package notificator

import (
	"fmt"
	"runtime/debug"
	"time"

	"github.com/0xZumii/cat-tv/internal/models"
	"github.com/0xZumii/cat-tv/pkg/logger"
)

// Notificator announces catalog events out of band. Currently Telegram only;
// a nil TelegramNotificator turns every announcement into a no-op.
type Notificator struct {
	logger *logger.Logger

	TelegramNotificator *TelegramNotificator
}

func NewNotificator(logger *logger.Logger, telNotif *TelegramNotificator) *Notificator {
	return &Notificator{logger: logger, TelegramNotificator: telNotif}
}

// safeCall runs a function with panic recovery (synchronous, no goroutine spawning)
func (n *Notificator) safeCall(fn func(), context string) {
	defer func() {
		if r := recover(); r != nil {
			n.logger.Error("Function panicked",
				"context", context,
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	fn()
}

// AnnounceHungryCat posts a hungry-cat message to the configured channel.
func (n *Notificator) AnnounceHungryCat(cat *models.Cat) {
	if n.TelegramNotificator == nil {
		return
	}

	hours := int64(0)
	if cat.LastFedAt > 0 {
		hours = (time.Now().UnixMilli() - cat.LastFedAt) / time.Hour.Milliseconds()
	}

	var message string
	if cat.LastFedAt == 0 {
		message = fmt.Sprintf("😿 %s has never been fed! Someone toss them some food.", cat.Name)
	} else {
		message = fmt.Sprintf("😿 %s is hungry! Last fed %dh ago.", cat.Name, hours)
	}

	n.safeCall(func() { n.TelegramNotificator.SendMessage(message) }, "hungryCatAlert")
}
