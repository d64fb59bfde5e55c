package indirect

import (
	"errors"
	"fmt"
)

var (
	// ErrUnsupportedStructure marks documents the pass refuses to rewrite.
	ErrUnsupportedStructure = errors.New("unsupported structure")
	// ErrPolicyConflict marks options whose classification is ambiguous.
	ErrPolicyConflict = errors.New("policy conflict")
	// ErrNameSpaceExhausted is returned when no fresh name can be found.
	ErrNameSpaceExhausted = errors.New("unable to generate unique name")
)

// UnsupportedStructureError reports a section that cannot be rewritten
// safely, such as explicit plando placements. The document is left as it was.
type UnsupportedStructureError struct {
	// Section is the game section, or empty for the document root.
	Section string
	Key     string
	Reason  string
}

func (e *UnsupportedStructureError) Error() string {
	if e == nil {
		return ""
	}

	where := "document root"
	if e.Section != "" {
		where = fmt.Sprintf("section %q", e.Section)
	}

	return fmt.Sprintf("%s: %s %q in %s", ErrUnsupportedStructure, e.Reason, e.Key, where)
}

func (e *UnsupportedStructureError) Unwrap() error { return ErrUnsupportedStructure }

// PolicyConflictError reports an ignored option that nevertheless looks
// like a weight table. It is left untouched and reported so the policy can
// be adjusted.
type PolicyConflictError struct {
	Section string
	Key     string
	Pattern string
}

func (e *PolicyConflictError) Error() string {
	if e == nil {
		return ""
	}

	return fmt.Sprintf("%s: %q in section %q is ignored by pattern %q but looks like a weight table",
		ErrPolicyConflict, e.Key, e.Section, e.Pattern)
}

func (e *PolicyConflictError) Unwrap() error { return ErrPolicyConflict }
