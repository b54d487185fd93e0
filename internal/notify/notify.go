package notify

import (
	log "github.com/sirupsen/logrus"
)

// Notifier is the UI collaborator the core reports to. Toast rendering and
// assistive-technology announcements live outside the core; components only
// emit the messages.
type Notifier interface {
	Notify(message string)
	Announce(message string)
}

// LogNotifier renders notifications through the application logger.
type LogNotifier struct{}

func (LogNotifier) Notify(message string) {
	log.Infof("🔔 %s", message)
}

func (LogNotifier) Announce(message string) {
	log.Debugf("📢 %s", message)
}

// Nop discards all notifications.
type Nop struct{}

func (Nop) Notify(string)   {}
func (Nop) Announce(string) {}
