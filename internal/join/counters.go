// Package join implements the candidate-filter and verification join and
// lookup drivers: a naive nested-loop join, the TJoin/Guha/Tang
// candidate-generation drivers, a brute-force scan lookup baseline, and
// an inverted-list lookup driver — each exposing the counters every
// driver maintains per spec.md §4.10.
//
// Every driver's Execute opens one OTEL span for the invocation and one
// child span per pipeline stage (convert, candidate-gen, ub-shortcut,
// verify), and times those same stages on the driver's Counters.phaseTimer
// so the span breakdown and the TopN/Summary timing report agree.
//
// Grounded on the teacher's internal/scheduler dispatch loop style
// (single-owner driver struct, explicit counter fields, no shared
// mutable state across invocations) generalized from task scheduling to
// pairwise tree comparison.
package join

import "github.com/treesimjoin/simjoin/pkg/utils"

// JoinResultElement is one emitted join/lookup result pair.
// TreeID1 < TreeID2 always holds for join results.
type JoinResultElement struct {
	TreeID1  int
	TreeID2  int
	Distance float64
}

// Counters are the read-only, per-invocation counters every join/lookup
// driver maintains (spec.md §4.10). Not every driver populates every
// field; unused fields stay zero.
type Counters struct {
	preCandidates  uint64
	subproblems    uint64
	ilLookups      uint64
	verifications  uint64
	candidates     uint64
	lTCandidates   uint64
	sedCandidates  uint64
	uTResultPairs  uint64
	ctedResultPairs uint64

	phaseTimer *utils.Timer
}

// GetNumberOfPreCandidates returns the number of pairs that survived the
// prefix/structural filter before any upper-bound shortcut or exact
// verification ran.
func (c *Counters) GetNumberOfPreCandidates() uint64 { return c.preCandidates }

// GetSubproblemCount returns the sum of subproblem counts across every
// kernel invocation the driver made.
func (c *Counters) GetSubproblemCount() uint64 { return c.subproblems }

// GetNumberOfILLookups returns the number of inverted-list entries
// scanned.
func (c *Counters) GetNumberOfILLookups() uint64 { return c.ilLookups }

// GetVerificationCount returns the number of exact-kernel calls made.
func (c *Counters) GetVerificationCount() uint64 { return c.verifications }

// GetCandidatesCount returns the number of candidate pairs considered,
// pre- and post-filter combined.
func (c *Counters) GetCandidatesCount() uint64 { return c.candidates }

// GetLTCandidates returns the number of candidates resolved by the LGM
// upper-bound shortcut (label/ub-table candidates).
func (c *Counters) GetLTCandidates() uint64 { return c.lTCandidates }

// GetSEDCandidates returns the number of candidates that survived the
// SED lower-bound refinement stage.
func (c *Counters) GetSEDCandidates() uint64 { return c.sedCandidates }

// GetUTResultPairs returns the number of result pairs emitted directly
// by an upper-bound shortcut (never exact-verified).
func (c *Counters) GetUTResultPairs() uint64 { return c.uTResultPairs }

// GetCTEDResultPairs returns the number of result pairs emitted directly
// by the CTED upper-bound shortcut (never exact-verified).
func (c *Counters) GetCTEDResultPairs() uint64 { return c.ctedResultPairs }

// Reset zeroes every counter for reuse across invocations.
func (c *Counters) Reset() { *c = Counters{} }

// GetTimingSummary returns the per-phase timing breakdown recorded during
// the last Execute call, or "" if no phase ran.
func (c *Counters) GetTimingSummary() string {
	if c.phaseTimer == nil {
		return ""
	}
	return c.phaseTimer.Summary()
}
