package directory

import (
	"fmt"
	"iter"
	"time"

	"github.com/go-ldap/ldap/v3"
)

const (
	// DefaultPageSize stays below the 1000 entry limit AD applies to unpaged searches.
	DefaultPageSize uint32 = 500

	allUsersFilter = "(&(objectClass=user)(!(objectClass=computer))(sAMAccountName=*))"
)

// Adapter runs user searches on an already bound session and normalizes the entries.
type Adapter struct {
	baseDN   string
	timeout  time.Duration
	pageSize uint32
}

// NewAdapter creates a query adapter searching below baseDN.
func NewAdapter(baseDN string, timeout time.Duration, pageSize uint32) *Adapter {
	if pageSize == 0 {
		pageSize = DefaultPageSize
	}

	return &Adapter{baseDN: baseDN, timeout: timeout, pageSize: pageSize}
}

func (a *Adapter) searchRequest(filter string) *ldap.SearchRequest {
	return ldap.NewSearchRequest(
		a.baseDN,
		ldap.ScopeWholeSubtree,
		ldap.NeverDerefAliases,
		0, // Size limit
		withTimeLimit(a.timeout),
		false,
		filter,
		userAttributes,
		nil,
	)
}

// FetchUserByAccountName looks up one user. It returns nil, nil when no entry matches;
// when several match, the first one wins.
func (a *Adapter) FetchUserByAccountName(s Session, accountName string) (*Attributes, error) {
	filter := fmt.Sprintf("(&(objectClass=user)(sAMAccountName=%s))", ldap.EscapeFilter(accountName))

	result, err := s.Search(a.searchRequest(filter))
	if err != nil {
		return nil, fmt.Errorf("%w: search for %q: %w", ErrDirectoryQuery, accountName, err)
	}

	if len(result.Entries) == 0 {
		return nil, nil //nolint:nilnil // not found is not an error
	}

	return normalize(result.Entries[0])
}

// FetchAllUsers returns every non-computer user below the base DN in directory order.
// The returned error reports a failed search. Entries that cannot be normalized are
// yielded with an ErrDirectoryQuery error and iteration continues.
// The sequence can be ranged over once.
func (a *Adapter) FetchAllUsers(s Session) (iter.Seq2[*Attributes, error], error) {
	result, err := s.SearchWithPaging(a.searchRequest(allUsersFilter), a.pageSize)
	if err != nil {
		return nil, fmt.Errorf("%w: list users: %w", ErrDirectoryQuery, err)
	}

	entries := result.Entries
	consumed := false

	return func(yield func(*Attributes, error) bool) {
		if consumed {
			return
		}

		consumed = true

		for _, entry := range entries {
			if !yield(normalize(entry)) {
				return
			}
		}
	}, nil
}
