// Package identitygate resolves request credentials to authenticated
// principals inside the identity-access context.
//
// The module owns token issue/verify only. Authorization for contest
// operations stays with the downstream modules, which decide based on the
// principal's role set and their own state.
package identitygate
