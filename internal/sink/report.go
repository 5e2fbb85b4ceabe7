package sink

import (
	"sync"
	"time"

	logpkg "github.com/rzbill/snaptail/pkg/log"
)

// DefaultCooldown is the minimum interval between emitted diagnostics.
const DefaultCooldown = 2 * time.Second

// Reporter rate-limits persistence diagnostics so a persistent fault (full
// disk, revoked permission) does not flood the log. At most one message is
// emitted per cooldown window; suppressed occurrences are counted and
// attached to the next emitted message.
type Reporter struct {
	mu         sync.Mutex
	cooldown   time.Duration
	last       time.Time
	suppressed int
	logger     logpkg.Logger
}

// NewReporter creates a Reporter. A non-positive cooldown selects
// DefaultCooldown.
func NewReporter(logger logpkg.Logger, cooldown time.Duration) *Reporter {
	if cooldown <= 0 {
		cooldown = DefaultCooldown
	}
	return &Reporter{cooldown: cooldown, logger: logger}
}

// Report emits the diagnostic unless one was emitted within the cooldown
// window, in which case it is counted as suppressed.
func (r *Reporter) Report(msg string, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	if !r.last.IsZero() && now.Sub(r.last) < r.cooldown {
		r.suppressed++
		return
	}

	fields := []logpkg.Field{logpkg.Err(err)}
	if r.suppressed > 0 {
		fields = append(fields, logpkg.Int("suppressed", r.suppressed))
	}
	r.logger.Error(msg, fields...)
	r.last = now
	r.suppressed = 0
}
