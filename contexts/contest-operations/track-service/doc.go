// Package trackservice manages contest track submissions: one entry per
// registered artist per contest, gated on a completed registration payment,
// held in a moderation queue until approved, and carrying a denormalized
// vote count kept current from committed vote events.
package trackservice
