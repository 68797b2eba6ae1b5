// Package voteledger is the tamper-resistant record of contest votes. Each
// voter holds exactly one ledger row per contest, enforced at the storage
// layer, and every derived count traces back to these rows.
package voteledger
