// Package paymentverifier owns the registration payment lifecycle: it
// initiates provider charges for artist registration, re-verifies every
// confirmation server-side against the provider, and exposes transaction
// status to the rest of the platform.
package paymentverifier
