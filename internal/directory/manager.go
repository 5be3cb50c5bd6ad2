package directory

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultProbeTimeout bounds the reachability check before every connection.
const DefaultProbeTimeout = 3 * time.Second

// Config holds the directory connection settings.
type Config struct {
	// Host is the directory server hostname or IP address.
	Host string
	// Port is the directory server port (389 for LDAP, 636 for LDAPS).
	Port int
	// UseSSL enables LDAPS.
	UseSSL bool
	// UseTLS enables StartTLS on a plain connection.
	UseTLS bool
	// SkipVerify skips TLS certificate verification (insecure, for testing only).
	SkipVerify bool
	// BaseDN is the search base for users.
	BaseDN string
	// Domain is the DNS domain used for user principal names (example.local).
	Domain string
	// NetBIOS is the pre-Windows 2000 domain name (EXAMPLE).
	NetBIOS string
	// AdminPrincipal is the service account used for searches, in any supported spelling.
	AdminPrincipal string
	// AdminPassword is the password of the service account.
	AdminPassword string
	// BindFormats is the initial order of admin bind formats.
	BindFormats []string
	// UserBindFormat is the single format used to verify user credentials.
	UserBindFormat string
	// Candidates are tried in order when the configured endpoint is unreachable.
	Candidates []Endpoint
	// ProbeTimeout bounds each reachability check.
	ProbeTimeout time.Duration
	// DiscoveryCooldown is the minimum time between discovery scans.
	DiscoveryCooldown time.Duration
	// Timeout bounds every directory operation.
	Timeout time.Duration
	// PageSize is the page size of the full user listing.
	PageSize uint32
}

// Option customizes a Manager.
type Option func(*Manager)

// WithProber replaces the TCP prober.
func WithProber(p Prober) Option {
	return func(m *Manager) { m.prober = p }
}

// WithDialer replaces the LDAP dialer.
func WithDialer(d Dialer) Option {
	return func(m *Manager) { m.dial = d }
}

// WithClock replaces the clock used by discovery.
func WithClock(c Clock) Option {
	return func(m *Manager) { m.clock = c }
}

// WithHintStore shares bind format and discovery hints through store.
func WithHintStore(h HintStore) Option {
	return func(m *Manager) { m.hints = h }
}

// WithFormatOrder replaces the promoting format order.
func WithFormatOrder(o FormatOrder) Option {
	return func(m *Manager) { m.formats = o }
}

// Manager opens directory sessions: administrative sessions for searches and
// throwaway sessions to verify user passwords.
type Manager struct {
	cfg        Config
	prober     Prober
	dial       Dialer
	clock      Clock
	hints      HintStore
	formats    FormatOrder
	userFormat BindFormat
	discovery  *Discovery

	mu       sync.RWMutex
	endpoint Endpoint
}

// NewManager creates a manager and checks the configured endpoint once, running
// discovery when it does not answer. An unreachable directory is not an error here.
func NewManager(cfg Config, opts ...Option) (*Manager, error) {
	if cfg.Host == "" {
		return nil, ErrHostEmpty
	}

	if cfg.BaseDN == "" {
		return nil, ErrBaseDNEmpty
	}

	if cfg.Port == 0 {
		cfg.Port = 389
		if cfg.UseSSL {
			cfg.Port = 636
		}
	}

	if cfg.ProbeTimeout <= 0 {
		cfg.ProbeTimeout = DefaultProbeTimeout
	}

	if len(cfg.BindFormats) == 0 {
		cfg.BindFormats = DefaultFormatNames()
	}

	if cfg.UserBindFormat == "" {
		cfg.UserBindFormat = FormatUPN
	}

	userFormat, err := LookupFormat(cfg.UserBindFormat)
	if err != nil {
		return nil, err
	}

	m := &Manager{
		cfg:        cfg,
		prober:     TCPProber{},
		userFormat: userFormat,
		endpoint:   Endpoint{Host: cfg.Host, Port: cfg.Port},
	}

	for _, opt := range opts {
		opt(m)
	}

	if m.dial == nil {
		m.dial = LDAPDialer(cfg)
	}

	if m.formats == nil {
		formats, errFormats := LookupFormats(cfg.BindFormats)
		if errFormats != nil {
			return nil, errFormats
		}

		m.formats = NewPromotingOrder(formats, m.hints)
	}

	m.discovery = NewDiscovery(m.prober, cfg.Candidates, cfg.ProbeTimeout, cfg.DiscoveryCooldown, m.clock, m.hints)

	if _, errReach := m.ensureReachable(); errReach != nil {
		log.Warn().Err(errReach).Str("endpoint", m.Endpoint().String()).Msg("directory not reachable at startup")
	}

	return m, nil
}

// Endpoint returns the endpoint sessions are currently opened against.
func (m *Manager) Endpoint() Endpoint {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.endpoint
}

// Probe reports whether the active endpoint answers right now.
func (m *Manager) Probe() bool {
	ep := m.Endpoint()

	return m.prober.Probe(ep.Host, ep.Port, m.cfg.ProbeTimeout)
}

// Status is a snapshot of the manager state for health reporting.
type Status struct {
	Endpoint      string     `json:"endpoint"`
	Reachable     bool       `json:"reachable"`
	BindFormats   []string   `json:"bind_formats"`
	LastDiscovery *time.Time `json:"last_discovery,omitempty"`
}

// Status probes the active endpoint and reports it with the current bind format order.
func (m *Manager) Status() Status {
	formats := m.formats.Formats()

	st := Status{
		Endpoint:    m.Endpoint().String(),
		Reachable:   m.Probe(),
		BindFormats: make([]string, 0, len(formats)),
	}

	for _, f := range formats {
		st.BindFormats = append(st.BindFormats, f.Name)
	}

	if last := m.discovery.LastAttempt(); !last.IsZero() {
		st.LastDiscovery = &last
	}

	return st
}

// ensureReachable probes the active endpoint and falls back to discovery.
// A discovered endpoint replaces the active one for the lifetime of the manager.
func (m *Manager) ensureReachable() (Endpoint, error) {
	ep := m.Endpoint()
	if m.prober.Probe(ep.Host, ep.Port, m.cfg.ProbeTimeout) {
		return ep, nil
	}

	found, ok := m.discovery.Discover()
	if !ok {
		probeFailures.Inc()
		return ep, &ConnectivityError{Endpoint: ep}
	}

	m.mu.Lock()
	m.endpoint = found
	m.mu.Unlock()

	log.Warn().Str("previous", ep.String()).Str("endpoint", found.String()).Msg("switched directory endpoint")

	return found, nil
}

// OpenAdminSession returns a session bound as the service account. Each configured
// format is tried in turn on the same connection; the first one accepted is promoted.
// The caller owns the session and must close it.
func (m *Manager) OpenAdminSession() (Session, error) {
	ep, err := m.ensureReachable()
	if err != nil {
		return nil, err
	}

	sess, err := m.dial(ep)
	if err != nil {
		probeFailures.Inc()
		return nil, &ConnectivityError{Endpoint: ep, Err: err}
	}

	principal := m.principal(m.cfg.AdminPrincipal)
	attempts := make([]string, 0, 4)

	var lastErr error

	for _, format := range m.formats.Formats() {
		bindName := format.Build(principal)
		if bindName == "" {
			continue
		}

		attempts = append(attempts, format.Name)

		if errBind := sess.Bind(bindName, m.cfg.AdminPassword); errBind != nil {
			log.Debug().Err(errBind).Str("format", format.Name).Msg("admin bind rejected")
			adminBinds.WithLabelValues(format.Name, "rejected").Inc()

			lastErr = errBind

			continue
		}

		adminBinds.WithLabelValues(format.Name, "success").Inc()
		m.formats.Promote(format.Name)

		return sess, nil
	}

	closeSession(sess)

	return nil, &BindExhaustedError{Attempts: attempts, Last: lastErr}
}

// VerifyUserCredential checks a password by binding as the user on a fresh connection.
// Empty passwords are rejected without contacting the directory, since AD accepts them
// as anonymous binds. Any failure, including an unreachable directory, yields false.
func (m *Manager) VerifyUserCredential(accountName, password string) bool {
	if accountName == "" || password == "" {
		return false
	}

	ep, err := m.ensureReachable()
	if err != nil {
		log.Warn().Err(err).Msg("user credential check skipped")
		return false
	}

	sess, err := m.dial(ep)
	if err != nil {
		log.Warn().Err(err).Msg("user credential check skipped")
		return false
	}
	defer closeSession(sess)

	bindName := m.userFormat.Build(m.principal(accountName))
	if bindName == "" {
		bindName = accountName
	}

	if errBind := sess.Bind(bindName, password); errBind != nil {
		log.Debug().Err(errBind).Str("account", accountName).Msg(ErrInvalidCredential.Error())
		return false
	}

	return true
}

func (m *Manager) principal(name string) Principal {
	return Principal{
		Name:    name,
		Domain:  m.cfg.Domain,
		NetBIOS: m.cfg.NetBIOS,
		BaseDN:  m.cfg.BaseDN,
	}
}

// Client combines session management with user queries.
type Client struct {
	*Manager
	*Adapter
}

// NewClient creates a Manager and an Adapter sharing cfg.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	m, err := NewManager(cfg, opts...)
	if err != nil {
		return nil, err
	}

	return &Client{
		Manager: m,
		Adapter: NewAdapter(cfg.BaseDN, cfg.Timeout, cfg.PageSize),
	}, nil
}
