// Package services implements the HTTP clients for the wellness backend.
//
// # Transport
//
// [APIService] performs raw requests against the backend base URL, pacing them with a
// [rate.Limiter] and decoding error bodies into [APIError]. Every resource client is built on it.
//
// # Resources
//
//   - [ExerciseService] : breathing exercises under /exercices
//   - [HealthService] : health articles under /informations-sante/
//   - [HistoryService] : exercise executions under /historiques
//   - [MeditationService] : guided meditations and their sessions
//   - [AuthService] : login, registration, refresh and profile under /auth
//
// # Sessions
//
// A [Session] owns the signed-in user and their [oauth2.Token]. Tokens are persisted through an
// injected [TokenStore]; [FileTokenStore] writes them to disk with owner-only permissions.
// [Session.API] returns an APIService whose client attaches the bearer token and refreshes it
// through /auth/refresh once the access token expires.
//
// # Error Handling
//
// HTTP failures unwrap to sentinels from the shared package:
//   - [shared.ErrNotAuthenticated] : 401 responses or no session
//   - [shared.ErrForbidden] : 403 responses
//   - [shared.ErrNotFound] : 404 responses
//   - [shared.ErrServiceUnavailable] : transport failures and 5xx responses
//   - [shared.ErrAPIRequest] : every non-2xx response
package services
