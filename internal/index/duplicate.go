package index

import (
	"context"
	"fmt"
)

// Duplicate is a pair of indexes with identical structure
type Duplicate struct {
	First  *Index // the index kept earlier in the table order
	Second *Index
}

// Message returns the notice shown for the pair
func (d Duplicate) Message() string {
	return fmt.Sprintf("The indexes %s and %s seem to be equal and one of them could possibly be removed.",
		d.First.Name(), d.Second.Name())
}

// Duplicates looks for indexes of the table that are structurally equal.
// The last index is taken off the list and compared with the remaining ones;
// only its first match is reported.
func (r *Registry) Duplicates(ctx context.Context, schemaName, table string) ([]Duplicate, error) {
	indexes, err := r.Table(ctx, schemaName, table)
	if err != nil {
		return nil, err
	}
	return FindDuplicates(indexes), nil
}

// FindDuplicates runs duplicate detection over an index list
func FindDuplicates(indexes []*Index) []Duplicate {
	if len(indexes) < 2 {
		return nil
	}

	views := make([]View, len(indexes))
	for i, idx := range indexes {
		views[i] = idx.View()
	}

	var result []Duplicate
	for last := len(indexes) - 1; last > 0; last-- {
		for i := 0; i < last; i++ {
			if !views[i].Equal(views[last]) {
				continue
			}
			result = append(result, Duplicate{First: indexes[i], Second: indexes[last]})
			break
		}
	}
	return result
}
