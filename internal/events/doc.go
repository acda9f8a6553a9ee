// Package events carries course card notifications from the card store to
// whoever needs to react to them: metrics, loggers, or a UI collaborator
// that re-renders after a commit.
//
// The primary components are:
// - CardEvent: something that happened to one card slot (or the whole array)
// - EventHandler: interface for components that consume events
// - EventEmitter: interface for components that publish events
package events
