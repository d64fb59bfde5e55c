// Package diagnostic collects structured warnings and notes about
// the decisions a transform made, such as options skipped because their
// shape was ambiguous.
package diagnostic
