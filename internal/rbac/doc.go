// Package rbac defines roles, the permission matrix and the resolver that derives
// both from directory group memberships.
//
// The resolver is a pure function of its input: it never reads persisted state.
// Manual overrides are applied by the synchronization engine, not here.
//
//	role, perms := rbac.Resolve([]string{"CN=Library Staff,OU=Groups,DC=example,DC=local"})
//	// role == rbac.RoleLibrarian
//	if perms.Allows(rbac.CapLoansForceReturn) { ... }
package rbac
