// Package domain contains shared domain types used across entity sub-packages.
// Entity-specific types live in sub-packages (domain/account). This root
// package holds the closed failure taxonomy (sentinel errors and Kind), the
// field-level ValidationError, and the Entity contract every repository-backed
// type satisfies.
package domain
