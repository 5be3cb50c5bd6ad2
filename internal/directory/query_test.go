package directory

import (
	"errors"
	"testing"
	"time"

	"github.com/go-ldap/ldap/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func userEntry(account string, extra map[string][]string) *ldap.Entry {
	attrs := map[string][]string{
		"sAMAccountName":     {account},
		"userAccountControl": {"512"},
		"distinguishedName":  {"CN=" + account + ",OU=Staff,DC=example,DC=local"},
	}

	for k, v := range extra {
		attrs[k] = v
	}

	return ldap.NewEntry("CN="+account+",OU=Staff,DC=example,DC=local", attrs)
}

func TestFetchUserByAccountName(t *testing.T) {
	sess := newFakeSession(nil)
	sess.searchResult = &ldap.SearchResult{Entries: []*ldap.Entry{
		userEntry("alice", map[string][]string{
			"mail":        {"alice@example.local"},
			"displayName": {"Alice Liddell"},
			"department":  {""},
			"memberOf":    {"CN=Librarians,OU=Groups,DC=example,DC=local", "CN=Staff,OU=Groups,DC=example,DC=local"},
		}),
		userEntry("alice2", nil),
	}}

	a := NewAdapter("DC=example,DC=local", 5*time.Second, 0)

	attrs, err := a.FetchUserByAccountName(sess, "alice")
	require.NoError(t, err)
	require.NotNil(t, attrs)

	assert.Equal(t, "alice", attrs.AccountName)
	require.NotNil(t, attrs.Mail)
	assert.Equal(t, "alice@example.local", *attrs.Mail)
	assert.Equal(t, "Alice Liddell", *attrs.DisplayName)
	assert.Nil(t, attrs.Department, "empty string is absent")
	assert.Nil(t, attrs.Title)
	assert.Len(t, attrs.Groups, 2)
	assert.True(t, attrs.Active())

	require.Len(t, sess.requests, 1)
	req := sess.requests[0]
	assert.Equal(t, "(&(objectClass=user)(sAMAccountName=alice))", req.Filter)
	assert.Equal(t, "DC=example,DC=local", req.BaseDN)
	assert.Equal(t, ldap.ScopeWholeSubtree, req.Scope)
	assert.Equal(t, 5, req.TimeLimit)
	assert.Equal(t, userAttributes, req.Attributes)
}

func TestFetchUserByAccountNameEscapesFilter(t *testing.T) {
	sess := newFakeSession(nil)
	a := NewAdapter("DC=example,DC=local", 0, 0)

	attrs, err := a.FetchUserByAccountName(sess, "*)(objectClass=*")
	require.NoError(t, err)
	assert.Nil(t, attrs)

	require.Len(t, sess.requests, 1)
	assert.Equal(t, `(&(objectClass=user)(sAMAccountName=\2a\29\28objectClass=\2a))`, sess.requests[0].Filter)
}

func TestFetchUserByAccountNameNotFound(t *testing.T) {
	sess := newFakeSession(nil)
	a := NewAdapter("DC=example,DC=local", 0, 0)

	attrs, err := a.FetchUserByAccountName(sess, "ghost")
	require.NoError(t, err)
	assert.Nil(t, attrs)
}

func TestFetchUserByAccountNameSearchError(t *testing.T) {
	sess := newFakeSession(nil)
	sess.searchErr = ldap.NewError(ldap.LDAPResultOperationsError, errors.New("search failed"))
	a := NewAdapter("DC=example,DC=local", 0, 0)

	_, err := a.FetchUserByAccountName(sess, "alice")
	require.ErrorIs(t, err, ErrDirectoryQuery)

	var ldapErr *ldap.Error
	require.ErrorAs(t, err, &ldapErr)
	assert.Equal(t, uint16(ldap.LDAPResultOperationsError), ldapErr.ResultCode)
}

func TestFetchAllUsers(t *testing.T) {
	sess := newFakeSession(nil)
	sess.searchResult = &ldap.SearchResult{Entries: []*ldap.Entry{
		userEntry("alice", nil),
		ldap.NewEntry("CN=Broken,OU=Staff,DC=example,DC=local", map[string][]string{"mail": {"broken@example.local"}}),
		userEntry("bob", map[string][]string{"userAccountControl": {"514"}}),
	}}

	a := NewAdapter("DC=example,DC=local", 0, 250)

	users, err := a.FetchAllUsers(sess)
	require.NoError(t, err)

	var (
		names []string
		errs  []error
	)

	for attrs, errEntry := range users {
		if errEntry != nil {
			errs = append(errs, errEntry)
			continue
		}

		names = append(names, attrs.AccountName)
	}

	assert.Equal(t, []string{"alice", "bob"}, names)
	require.Len(t, errs, 1)
	require.ErrorIs(t, errs[0], ErrDirectoryQuery)
	assert.ErrorContains(t, errs[0], "CN=Broken")

	assert.Equal(t, uint32(250), sess.pageSize)
	assert.Equal(t, "(&(objectClass=user)(!(objectClass=computer))(sAMAccountName=*))", sess.requests[0].Filter)

	// single use
	count := 0
	for range users {
		count++
	}

	assert.Equal(t, 0, count)
}

func TestFetchAllUsersStopsEarly(t *testing.T) {
	sess := newFakeSession(nil)
	sess.searchResult = &ldap.SearchResult{Entries: []*ldap.Entry{
		userEntry("alice", nil),
		userEntry("bob", nil),
	}}

	users, err := NewAdapter("DC=example,DC=local", 0, 0).FetchAllUsers(sess)
	require.NoError(t, err)

	seen := 0

	for range users {
		seen++
		break
	}

	assert.Equal(t, 1, seen)
}

func TestFetchAllUsersSearchError(t *testing.T) {
	sess := newFakeSession(nil)
	sess.searchErr = errors.New("size limit exceeded")

	users, err := NewAdapter("DC=example,DC=local", 0, 0).FetchAllUsers(sess)
	require.ErrorIs(t, err, ErrDirectoryQuery)
	assert.Nil(t, users)
}
