// Package events defines the values published on the internal event bus.
// Subscribers such as the engine's event journal consume them without
// coupling to the refresh loop itself.
package events
