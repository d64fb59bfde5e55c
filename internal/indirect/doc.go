// Package indirect moves option weights out of a profile's game sections
// and behind trigger chains.
//
// Every weighted option, either a weight table or a single scalar choice,
// becomes a reference to a wrapper option whose keys are freshly generated
// result names carrying the original weights. For each result a trigger is
// added that sets the original option to the original label once the
// wrapper rolls that result. Rolling the rewritten profile therefore gives
// each option the same distribution as before, while the section itself no
// longer shows which labels or weights are in play.
//
// Options listed by the policy table are never touched, and documents that
// contain plando placements are rejected before any change is made.
package indirect
