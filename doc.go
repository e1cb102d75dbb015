// Package spaces is the client core for the space rental platform: token
// storage, local claim decoding, session lifecycle, an authenticated REST
// client, and role-aware route guarding.
//
// Session lifecycle:
//   - SessionManager owns the Session. It hydrates state from the TokenStore
//     on startup (CheckAuthStatus), drives login/register/logout against the
//     backend auth endpoints, and guarantees a settled status (authenticated
//     or anonymous, never loading) after every operation.
//   - Tokens are decoded locally without signature verification. The backend
//     signed and issued the token; this client trusts its content on read.
//     Treat any decode failure as "not authenticated".
//
// Activity sinks:
//   - ActivitySink is a light-weight audit emitter used by SessionManager to
//     describe login, registration, logout, and expiry events. Sinks run
//     best-effort (errors are logged) so you can forward to a database or
//     queue without blocking the session flow.
//
// Route guarding:
//   - RouteGuard is a pure decision function over the session snapshot and an
//     optional required role. The middleware/routeguard package applies its
//     decisions to HTTP traffic as redirects.
package spaces
