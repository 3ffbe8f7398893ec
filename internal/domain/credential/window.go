package credential

import (
	"fmt"
	"time"
)

// DefaultViewTTL is how long one page load of a credential stays usable.
const DefaultViewTTL = 8 * time.Minute

// ViewWindow is the lifetime of one credential page load.
type ViewWindow struct {
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func NewViewWindow(issuedAt time.Time, ttl time.Duration) ViewWindow {
	return ViewWindow{IssuedAt: issuedAt, ExpiresAt: issuedAt.Add(ttl)}
}

// Remaining is never negative.
func (w ViewWindow) Remaining(now time.Time) time.Duration {
	d := w.ExpiresAt.Sub(now)
	if d < 0 {
		return 0
	}
	return d
}

func (w ViewWindow) Expired(now time.Time) bool {
	return w.Remaining(now) <= 0
}

// FormatRemaining renders d as m:ss, rounding down to whole seconds.
func FormatRemaining(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int(d / time.Second)
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}
