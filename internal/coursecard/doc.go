// Package coursecard holds the course card store: an ordered collection of
// independent section searches, mutated only through intents.
//
// Intents that change a card's course or section filters start an
// asynchronous fetch. Every card slot carries a generation number; a fetch
// remembers the generation it was started under and its result is only
// committed if the slot still exists and still expects that generation.
// Later dispatches therefore always win over earlier ones, whatever order
// the network answers in.
//
// A Registry keeps one Store per browser session.
package coursecard
