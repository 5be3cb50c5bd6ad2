// Package main provides the entry point of GoLibraryAdmin, a service that authenticates
// users against an LDAP / Active Directory server, mirrors directory accounts into a
// local identity store with roles derived from group membership, and issues signed
// session tokens through a JSON API.
package main
