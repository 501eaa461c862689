package index

import (
	"fmt"
	"strings"
)

// Kind is the index choice: PRIMARY, UNIQUE, INDEX, SPATIAL or FULLTEXT
type Kind string

const (
	KindPrimary  Kind = "PRIMARY"
	KindUnique   Kind = "UNIQUE"
	KindIndex    Kind = "INDEX"
	KindSpatial  Kind = "SPATIAL"
	KindFulltext Kind = "FULLTEXT"
)

// Mask selects a set of kinds
type Mask int

const (
	MaskPrimary Mask = 1 << iota
	MaskUnique
	MaskIndex
	MaskSpatial
	MaskFulltext

	MaskAll = MaskPrimary | MaskUnique | MaskIndex | MaskSpatial | MaskFulltext
)

// Mask returns the mask bit of the kind, 0 for an unknown kind
func (k Kind) Mask() Mask {
	switch k {
	case KindPrimary:
		return MaskPrimary
	case KindUnique:
		return MaskUnique
	case KindIndex:
		return MaskIndex
	case KindSpatial:
		return MaskSpatial
	case KindFulltext:
		return MaskFulltext
	}
	return 0
}

// Valid reports whether k is one of the five known kinds
func (k Kind) Valid() bool {
	return k.Mask() != 0
}

// Has reports whether the mask selects kind
func (m Mask) Has(kind Kind) bool {
	return m&kind.Mask() != 0
}

// ParseMask builds a mask from a comma separated list of kind names, e.g. "primary,unique".
// An empty string selects every kind.
func ParseMask(text string) (Mask, error) {
	if strings.TrimSpace(text) == "" {
		return MaskAll, nil
	}
	var mask Mask
	for _, item := range strings.Split(text, ",") {
		kind := Kind(strings.ToUpper(strings.TrimSpace(item)))
		if !kind.Valid() {
			return 0, fmt.Errorf("invalid index kind: %s", item)
		}
		mask |= kind.Mask()
	}
	return mask, nil
}

// Methods returns the index methods that can be chosen when creating an index
func Methods() []string {
	return []string{"BTREE", "HASH"}
}
