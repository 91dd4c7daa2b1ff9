package hitting

import "errors"

// ErrEmptyFamilyMember is returned by MinimalHittingSets when family
// contains a member with no elements: no set can intersect it, so the
// family has no hitting set at all and enumerating "zero results" would be
// indistinguishable from "not yet computed".
var ErrEmptyFamilyMember = errors.New("hitting: family member with no elements cannot be hit")
