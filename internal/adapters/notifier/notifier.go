package notifier

import (
	"sync"

	"github.com/baditaflorin/go_heading_command/internal/ports"
)

// AlertFunc is the host's blocking alert, e.g. a dialog that returns once
// the user dismissed it.
type AlertFunc func(message string)

// AlertNotifier forwards messages to the host alert.
type AlertNotifier struct {
	alert  AlertFunc
	logger ports.Logger
}

// NewAlertNotifier creates a notifier backed by alert.
func NewAlertNotifier(alert AlertFunc, logger ports.Logger) *AlertNotifier {
	return &AlertNotifier{alert: alert, logger: logger}
}

// Notify shows message and returns once the alert has been dismissed.
func (n *AlertNotifier) Notify(message string) {
	n.logger.Debug("Showing alert", "message", message)
	n.alert(message)
}

// LogNotifier writes messages to the log. Headless hosts such as the HTTP
// server use it because nobody is there to dismiss a dialog.
type LogNotifier struct {
	logger ports.Logger
}

// NewLogNotifier creates a notifier that logs at warn level.
func NewLogNotifier(logger ports.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify implements ports.Notifier.
func (n *LogNotifier) Notify(message string) {
	n.logger.Warn("User notification", "message", message)
}

// Recorder keeps every message it receives.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

// Notify implements ports.Notifier.
func (r *Recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of the recorded messages.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.messages...)
}

var (
	_ ports.Notifier = (*AlertNotifier)(nil)
	_ ports.Notifier = (*LogNotifier)(nil)
	_ ports.Notifier = (*Recorder)(nil)
)
