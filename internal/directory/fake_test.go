package directory

import (
	"errors"
	"sync"
	"time"

	"github.com/go-ldap/ldap/v3"
)

// fakeSession is an in-memory Session recording binds and searches.
type fakeSession struct {
	mu sync.Mutex

	accept map[string]string // bind name -> password

	binds   []string
	closed  int
	dialErr error

	searchResult *ldap.SearchResult
	searchErr    error
	requests     []*ldap.SearchRequest
	pageSize     uint32
}

func newFakeSession(accept map[string]string) *fakeSession {
	return &fakeSession{accept: accept, searchResult: &ldap.SearchResult{}}
}

func (s *fakeSession) Bind(username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.binds = append(s.binds, username)

	if pw, ok := s.accept[username]; ok && pw == password {
		return nil
	}

	return ldap.NewError(ldap.LDAPResultInvalidCredentials, errors.New("invalid credentials"))
}

func (s *fakeSession) Search(req *ldap.SearchRequest) (*ldap.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)

	return s.searchResult, s.searchErr
}

func (s *fakeSession) SearchWithPaging(req *ldap.SearchRequest, pagingSize uint32) (*ldap.SearchResult, error) {
	s.mu.Lock()
	s.pageSize = pagingSize
	s.mu.Unlock()

	return s.Search(req)
}

func (s *fakeSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed++

	return nil
}

func (s *fakeSession) bindNames() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]string(nil), s.binds...)
}

func (s *fakeSession) resetBinds() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.binds = nil
}

// fakeProber answers from a fixed reachability table and counts probes per endpoint.
type fakeProber struct {
	mu    sync.Mutex
	up    map[string]bool
	calls map[string]int
}

func newFakeProber(up ...string) *fakeProber {
	p := &fakeProber{up: map[string]bool{}, calls: map[string]int{}}
	for _, ep := range up {
		p.up[ep] = true
	}

	return p
}

func (p *fakeProber) Probe(host string, port int, _ time.Duration) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := Endpoint{Host: host, Port: port}.String()
	p.calls[key]++

	return p.up[key]
}

func (p *fakeProber) set(endpoint string, up bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.up[endpoint] = up
}

func (p *fakeProber) count(endpoint string) int {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.calls[endpoint]
}

// fakeClock is a manually advanced clock.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// memHints is an in-memory HintStore ignoring TTLs.
type memHints struct {
	mu     sync.Mutex
	values map[string]string
}

func newMemHints() *memHints {
	return &memHints{values: map[string]string{}}
}

func (h *memHints) Get(key string) (string, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	v, ok := h.values[key]

	return v, ok
}

func (h *memHints) Set(key, value string, _ time.Duration) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.values[key] = value
}

func testConfig() Config {
	return Config{
		Host:           "dc1.example.local",
		Port:           389,
		BaseDN:         "DC=example,DC=local",
		Domain:         "example.local",
		NetBIOS:        "EXAMPLE",
		AdminPrincipal: "svc-sync",
		AdminPassword:  "s3cret",
		Timeout:        5 * time.Second,
	}
}

// dialCounter returns a Dialer handing out sess and counting dials.
func dialCounter(sess *fakeSession, dials *int) Dialer {
	return func(Endpoint) (Session, error) {
		*dials++

		if sess.dialErr != nil {
			return nil, sess.dialErr
		}

		return sess, nil
	}
}
