// Package policy holds the static tables that decide which options the
// weight indirection pass must leave alone.
//
// A Table is immutable once built. It answers four questions:
//   - IsIgnored: is this option a bulk assignment rather than a weight table
//     (start_inventory, item_links, ...)?
//   - IsPlando: does this section carry explicit placements that cannot be
//     rewritten safely?
//   - IsTopLevelDirective / IsGameDirective: is this key structure rather
//     than an option?
//
// Tables can be extended from a YAML file:
//
//	version: "1"
//	replace: false       # true drops the built-in patterns
//	ignore:
//	  - death_link
//	  - custom_*         # trailing '*' matches a prefix
//	plando:
//	  - {name: manual_placements}
package policy
