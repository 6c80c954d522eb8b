// Package auth provides the credential and session core for Gatehouse.
//
// # Domain Types
//
// Account is the durable record behind an email/password pair. Accounts
// should be created through NewAccount, which normalizes the email and
// validates all fields; direct struct initialization bypasses validation
// and may create invalid state. Repository implementations receive
// pre-validated accounts from the constructor.
//
// # Services
//
// Service coordinates the three observable operations:
//   - Register - hash the secret, insert the account, issue a session token
//   - Authenticate - look up the account, verify the secret, issue a token
//   - Introspect - decode a carried token into an identity or a denial
//
// Token issuance and parsing live in TokenCodec; session introspection in
// Verifier. Both are constructed with an immutable signing key so key
// handling stays injectable in tests.
package auth
