// Package auth provides authentication primitives (snowflake identifiers,
// typed JWT issuance, stateful repositories, HTTP helpers) for the URL
// shortener backend.
//
// Identifiers:
//   - User records are keyed by worker-partitioned snowflake IDs from the
//     generator package. IDs are unique and strictly increasing per worker,
//     so they double as a creation ordering.
//
// Tokens:
//   - TokenService issues HS256 JWTs in two flavors, access and refresh. The
//     flavor is carried in the JOSE header typ field and is checked before the
//     signature, so an access token can never pass where a refresh token is
//     expected. Every rejection collapses into ErrInvalidToken; callers learn
//     nothing about why a credential failed.
//
// Authentication:
//   - Auther drives the credential state machine: a missing credential yields
//     ErrAuthorizationRequired, anything else that does not resolve to a known
//     principal yields ErrInvalidToken. Principal lookup goes through the
//     IdentityStore collaborator, typically a UserProvider backed by the Bun
//     repositories.
package auth
