// Package backend implements term.Source and coursecard.SectionFetcher over
// the HTTP API of the section backend.
//
// Requests are rate limited and pass through a circuit breaker. A failed
// request is returned to the caller as is; the client never retries.
package backend
