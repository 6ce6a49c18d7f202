package diff

import "github.com/arloliu/realmrecover/object"

// OrderedDifference pairs a and b position by position and returns what each
// side holds that the other does not.
//
// Two Lists are walked index by index. A pair that yields any difference
// contributes its nested differences to both outputs, so the nesting of the
// inputs is preserved. When one List is longer, its unmatched tail is appended
// to that side's output as is. Any other pair of values contributes itself to
// both outputs when unequal and nothing otherwise.
//
// Example:
//
//	a := object.List{object.Int(1), object.List{object.Int(2), object.Int(3)}}
//	b := object.List{object.Int(1), object.List{object.Int(2), object.Int(4)}, object.Int(5)}
//	onlyA, onlyB := OrderedDifference(a, b)
//	// onlyA: [[[3]]]
//	// onlyB: [[[4]], 5]
func OrderedDifference(a, b object.Value) (onlyA, onlyB object.List) {
	la, aIsList := a.(object.List)
	lb, bIsList := b.(object.List)

	if !aIsList || !bIsList {
		if Equal(a, b) {
			return object.List{}, object.List{}
		}

		return object.List{a}, object.List{b}
	}

	onlyA, onlyB = object.List{}, object.List{}
	common := min(len(la), len(lb))
	for i := range common {
		subA, subB := OrderedDifference(la[i], lb[i])
		if len(subA) > 0 || len(subB) > 0 {
			onlyA = append(onlyA, subA)
			onlyB = append(onlyB, subB)
		}
	}

	onlyA = append(onlyA, la[common:]...)
	onlyB = append(onlyB, lb[common:]...)

	return onlyA, onlyB
}
