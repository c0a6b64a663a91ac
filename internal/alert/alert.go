package alert

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// Category identifies the kind of failure surfaced to the user.
type Category string

const (
	CategoryAPIError        Category = "API Error"
	CategoryParsing         Category = "Parsing Error"
	CategoryPlatformFetch   Category = "Platform Fetch Error"
	CategoryPlatformDetails Category = "Platform Details Error"
)

// Alert is a single user-facing notification.
type Alert struct {
	Category Category
	Hint     string
	RaisedAt time.Time
}

// Alerter raises user-facing notifications. Implementations must be safe for
// concurrent use; the search pipeline raises alerts from worker goroutines.
type Alerter interface {
	Raise(category Category, hint string)
}

// LogAlerter surfaces alerts through the application logger.
type LogAlerter struct {
	logger *logrus.Logger
}

// NewLogAlerter creates an Alerter backed by the given logger.
func NewLogAlerter(logger *logrus.Logger) *LogAlerter {
	return &LogAlerter{logger: logger}
}

// Raise logs the alert at warn level.
func (a *LogAlerter) Raise(category Category, hint string) {
	a.logger.WithFields(logrus.Fields{
		"category": string(category),
		"hint":     hint,
	}).Warn("User alert raised")
}

// Recorder captures raised alerts in memory. Used by tests and callers that
// need to present alerts after the fact.
type Recorder struct {
	mu     sync.Mutex
	alerts []Alert
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Raise records the alert with the current time.
func (r *Recorder) Raise(category Category, hint string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, Alert{
		Category: category,
		Hint:     hint,
		RaisedAt: time.Now(),
	})
}

// Alerts returns a copy of everything recorded so far.
func (r *Recorder) Alerts() []Alert {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Alert, len(r.alerts))
	copy(out, r.alerts)
	return out
}
