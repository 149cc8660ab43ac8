// Package scheduler orders a batch of approved posts and assigns each one a
// concrete publish slot.
//
// Two mutually exclusive orderings are available. The diversity reorder caps
// consecutive same-country runs with a greedy, best-effort pass. The grid
// reorder emits fixed-size same-country blocks and consults the committed
// schedule history to finish a partially filled feed row before starting new
// ones. The date assigner then converts the ordered batch into (date, time)
// slots at the configured weekly cadence and commits each post to the
// scheduled stage through the store.
package scheduler
