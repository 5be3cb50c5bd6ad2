package directory

import (
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

// DefaultDiscoveryCooldown is the minimum time between two discovery scans.
const DefaultDiscoveryCooldown = 5 * time.Minute

// Clock returns the current time.
type Clock func() time.Time

// Discovery scans a list of candidate endpoints for one that accepts connections.
// Scans are rate limited by a cooldown and concurrent scans collapse into one.
type Discovery struct {
	prober     Prober
	candidates []Endpoint
	timeout    time.Duration
	cooldown   time.Duration
	now        Clock
	hints      HintStore

	mu          sync.Mutex
	lastAttempt time.Time

	group singleflight.Group
}

// NewDiscovery creates a discovery over candidates. A nil clock uses time.Now and a
// nil hint store keeps the cooldown local to this instance.
func NewDiscovery(prober Prober, candidates []Endpoint, timeout, cooldown time.Duration, now Clock, hints HintStore) *Discovery {
	if now == nil {
		now = time.Now
	}

	if cooldown <= 0 {
		cooldown = DefaultDiscoveryCooldown
	}

	return &Discovery{
		prober:     prober,
		candidates: candidates,
		timeout:    timeout,
		cooldown:   cooldown,
		now:        now,
		hints:      hints,
	}
}

type discoveryResult struct {
	endpoint Endpoint
	found    bool
}

// Discover returns the first reachable candidate in list order. It returns false when no
// candidate answers or when the last scan happened within the cooldown window.
func (d *Discovery) Discover() (Endpoint, bool) {
	v, _, _ := d.group.Do("discover", func() (any, error) {
		if !d.begin() {
			log.Debug().Dur("cooldown", d.cooldown).Msg("directory discovery skipped, cooldown active")
			return discoveryResult{}, nil
		}

		for _, candidate := range d.candidates {
			if d.prober.Probe(candidate.Host, candidate.Port, d.timeout) {
				log.Info().Str("endpoint", candidate.String()).Msg("directory endpoint discovered")
				return discoveryResult{endpoint: candidate, found: true}, nil
			}

			log.Debug().Str("endpoint", candidate.String()).Msg("directory candidate unreachable")
		}

		log.Warn().Int("candidates", len(d.candidates)).Msg("directory discovery found no reachable endpoint")

		return discoveryResult{}, nil
	})

	res, _ := v.(discoveryResult)

	return res.endpoint, res.found
}

// begin records an attempt, unless the cooldown since the previous one has not elapsed.
func (d *Discovery) begin() bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	now := d.now()

	last := d.lastAttempt
	if shared := d.sharedLastAttempt(); shared.After(last) {
		last = shared
	}

	if !last.IsZero() && now.Sub(last) < d.cooldown {
		return false
	}

	d.lastAttempt = now

	if d.hints != nil {
		d.hints.Set(hintKeyDiscovery, strconv.FormatInt(now.Unix(), 10), d.cooldown)
	}

	return true
}

func (d *Discovery) sharedLastAttempt() time.Time {
	if d.hints == nil {
		return time.Time{}
	}

	raw, ok := d.hints.Get(hintKeyDiscovery)
	if !ok {
		return time.Time{}
	}

	sec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}
	}

	return time.Unix(sec, 0)
}

// LastAttempt returns the time of the last scan started by this instance.
func (d *Discovery) LastAttempt() time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()

	return d.lastAttempt
}
