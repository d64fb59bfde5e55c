// Package resolve rolls profiles the way the randomizer's generator does, so
// a rewritten profile can be checked against the original.
//
// Root triggers run first, then the triggers of the chosen game. Reading an
// option inside a trigger pins its rolled value. A matching trigger updates
// the targeted categories: keys prefixed with "+" merge into the current
// value, keys prefixed with "-" subtract from it, and other keys replace it.
package resolve
