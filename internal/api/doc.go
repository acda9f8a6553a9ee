// Package api handles incoming HTTP requests, request validation and
// response formatting. Handlers translate HTTP concerns into course card
// store intents, term lookups and session persistence; every card
// operation addresses the caller's own store through the session registry.
package api
