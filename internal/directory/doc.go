// Package directory talks to Active Directory over LDAP.
//
// A Manager owns the connection side: it probes the configured domain controller,
// falls back to a list of candidate endpoints when that one is down, binds the service
// account by trying several credential spellings (UPN, DN, short name, NETBIOS\name),
// and verifies user passwords with a throwaway bind. An Adapter runs the user searches
// on a bound Session and normalizes entries into Attributes.
//
// Sessions are never pooled: every logical operation opens one and closes it before
// returning.
//
//	client, err := directory.NewClient(cfg)
//	sess, err := client.OpenAdminSession()
//	defer sess.Close()
//	attrs, err := client.FetchUserByAccountName(sess, "alice")
package directory
