// Package moderationservice runs the track review queue. Moderators approve
// or reject pending submissions; every decision is recorded once and routed
// to the track module, which owns the track's eligibility status.
package moderationservice
