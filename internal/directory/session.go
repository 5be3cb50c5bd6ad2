package directory

import (
	"crypto/tls"
	"fmt"
	"net"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/rs/zerolog/log"
)

// Session is an open directory connection. *ldap.Conn satisfies it.
type Session interface {
	Bind(username, password string) error
	Search(searchRequest *ldap.SearchRequest) (*ldap.SearchResult, error)
	SearchWithPaging(searchRequest *ldap.SearchRequest, pagingSize uint32) (*ldap.SearchResult, error)
	Close() error
}

// Dialer opens an unauthenticated session to an endpoint.
type Dialer func(endpoint Endpoint) (Session, error)

// LDAPDialer returns a Dialer using the transport settings of cfg.
func LDAPDialer(cfg Config) Dialer {
	return func(endpoint Endpoint) (Session, error) {
		scheme := "ldap://"
		if cfg.UseSSL {
			scheme = "ldaps://"
		}

		// Configure TLS
		var tlsConfig *tls.Config
		if cfg.UseSSL || cfg.UseTLS {
			tlsConfig = &tls.Config{
				InsecureSkipVerify: cfg.SkipVerify, //nolint:gosec // skipping verifying tls is ok
				ServerName:         endpoint.Host,
			}
		}

		conn, err := ldap.DialURL(scheme+endpoint.String(),
			ldap.DialWithTLSConfig(tlsConfig),
			ldap.DialWithDialer(newNetDialer(cfg.ProbeTimeout)),
		)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to directory %s: %w", endpoint, err)
		}

		// Upgrade to TLS if requested (for non-SSL connections)
		if !cfg.UseSSL && cfg.UseTLS {
			if errStartTLS := conn.StartTLS(tlsConfig); errStartTLS != nil {
				closeSession(conn)

				return nil, fmt.Errorf("failed to start TLS: %w", errStartTLS)
			}
		}

		if cfg.Timeout > 0 {
			conn.SetTimeout(cfg.Timeout)
		}

		return conn, nil
	}
}

func closeSession(s Session) {
	if s == nil {
		return
	}

	if errClose := s.Close(); errClose != nil {
		log.Warn().Err(errClose).Msg("failed to close directory connection")
	}
}

func newNetDialer(timeout time.Duration) *net.Dialer {
	if timeout <= 0 {
		timeout = ldap.DefaultTimeout
	}

	return &net.Dialer{Timeout: timeout}
}

// withTimeLimit converts an operation timeout to the whole seconds a search request carries.
func withTimeLimit(d time.Duration) int {
	if d <= 0 {
		return 0
	}

	secs := int(d / time.Second)
	if secs == 0 {
		secs = 1
	}

	return secs
}
