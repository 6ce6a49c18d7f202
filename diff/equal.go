package diff

import (
	"math"

	"github.com/arloliu/realmrecover/object"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// equalOpts makes NaN equal to NaN and a nil List equal to an empty one.
var equalOpts = cmp.Options{
	cmp.Comparer(func(x, y object.Float) bool {
		return x == y || (math.IsNaN(float64(x)) && math.IsNaN(float64(y)))
	}),
	cmp.Comparer(func(x, y object.Double) bool {
		return x == y || (math.IsNaN(float64(x)) && math.IsNaN(float64(y)))
	}),
	cmpopts.EquateEmpty(),
}

// Equal reports whether two decoded values are structurally equal.
func Equal(a, b any) bool {
	return cmp.Equal(a, b, equalOpts)
}
