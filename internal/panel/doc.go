// Package panel serialises access to the node's shared peripheral bus and the
// 16x2 character display attached to it.
//
// Exactly one Arbiter owns the bus. Callers enqueue render requests through a
// bounded channel; the arbiter's run loop services them one at a time, so no
// other code path ever touches the bus and no two requests can interleave.
//
// On first use the arbiter probes the two known display addresses in a fixed
// preference order and caches whichever responds. If neither responds the
// arbiter fails terminally: every later render call returns false without
// re-probing.
package panel
