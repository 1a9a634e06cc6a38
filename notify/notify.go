// Package notify delivers user notifications keyed by a tag.
package notify

import (
	"path/filepath"
	"sync"

	"github.com/adrg/xdg"
	"github.com/gen2brain/beeep"

	"github.com/trueinspo/babytimer/internal/apperr"
)

// Tags used by the application.
const (
	TagTimer       = "timer"
	TagPersistence = "persistence"
)

var errNotificationsDisabled = &apperr.Error{
	Message: "notifications are disabled in the config file",
}

// Notifier shows, replaces and clears notifications.
type Notifier interface {
	RequestPermission() error
	Send(tag, title, body string) error
	Clear(tag string)
}

// Notification is the last message delivered under a tag.
type Notification struct {
	Title string
	Body  string
}

// Desktop delivers notifications through the operating system's notification
// daemon. The daemon offers no way to withdraw a message, so a resend under
// the same tag replaces only the tracked entry.
type Desktop struct {
	send    func(title, message, icon string) error
	sent    map[string]Notification
	icon    string
	enabled bool
	mu      sync.Mutex
}

type Option func(*Desktop)

// WithSender replaces the function that delivers a notification.
func WithSender(fn func(title, message, icon string) error) Option {
	return func(d *Desktop) {
		d.send = fn
	}
}

// NewDesktop returns a notifier that shows nothing when enabled is false.
func NewDesktop(appDir string, enabled bool, opts ...Option) *Desktop {
	// icon is an empty string if the file is not found
	icon, _ := xdg.SearchDataFile(filepath.Join(appDir, "icon.svg"))

	d := &Desktop{
		send:    beeep.Notify,
		sent:    make(map[string]Notification),
		icon:    icon,
		enabled: enabled,
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

func (d *Desktop) RequestPermission() error {
	if !d.enabled {
		return errNotificationsDisabled
	}

	return nil
}

func (d *Desktop) Send(tag, title, body string) error {
	if !d.enabled {
		return nil
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if prev, ok := d.sent[tag]; ok && prev == (Notification{title, body}) {
		return nil
	}

	if err := d.send(title, body, d.icon); err != nil {
		return err
	}

	d.sent[tag] = Notification{Title: title, Body: body}

	return nil
}

func (d *Desktop) Clear(tag string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	delete(d.sent, tag)
}

// Last returns what was most recently sent under tag.
func (d *Desktop) Last(tag string) (Notification, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	n, ok := d.sent[tag]

	return n, ok
}
