// Package outage derives the next predicted outage window from the current
// grid stage. The schedule path is a pure function of (stage, now); the
// fallback path injects seeded demo data when the grid provider is
// unreachable and is kept behind its own type so tests can pin the seed.
package outage
