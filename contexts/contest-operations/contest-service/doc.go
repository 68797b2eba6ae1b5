// Package contestservice owns contest lifecycle state inside the
// contest-operations context.
//
// A contest's phase is a pure function of its configured boundaries and the
// current instant. It is computed on every read and never stored, so there
// is no background transition job and no drift between stored and actual
// phase. The module also owns idempotent winner finalization once voting
// has closed.
package contestservice
