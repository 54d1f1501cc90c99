// Package events provides the in-process domain event channel that decouples
// cache invalidation from the code performing writes.
//
// Services publish events after completing a state change; listeners such as
// the known-cards cache and the pagination count cache subscribe by event
// type and evict stale entries. Publication is synchronous: by the time
// Publish returns, every registered listener for the event's type has run,
// which gives read-after-write consistency to any reader whose read starts
// after the write call returns. Listeners are isolated from each other: one
// listener failing (or panicking) never prevents the remaining listeners
// from running.
package events
