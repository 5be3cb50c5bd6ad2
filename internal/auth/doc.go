// Package auth implements the login flow and the session tokens it hands out.
//
// A login first verifies the password with a bind as the user itself. Only then is
// the account fetched with the service account, synced into the identity store and
// checked for being enabled. The caller receives the identity and a signed token
// embedding its role and full permission matrix.
//
// Callers never learn why a login failed: every failure is ErrAuthenticationFailed.
//
//	issuer, err := auth.NewIssuer(cfg.Token.Secret, cfg.Token.TTL)
//	svc := auth.NewService(client, engine, issuer, db)
//	res, err := svc.Login("alice", password)
//	claims, err := issuer.Verify(res.Token)
package auth
