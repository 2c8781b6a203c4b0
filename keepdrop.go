package dice

import "sort"

// keepFlags runs the package's keep/drop algorithm (spec.md §4.5): it enumerates
// (index, value) pairs, stably sorts by value (reversing the ordering key for
// "keep high" so that ties go to the latest original index instead of the
// earliest), marks the first k as kept, and returns keep flags restored to
// original order.
//
// "Keep high" is implemented as "keep low after reversing the ordering key":
// concretely, the slice is reversed before the stable ascending sort and the
// comparison direction is flipped, which is equivalent to a descending sort
// whose ties favor the latest original occurrence.
func keepFlags(v Batch, k int, keepHigh bool) []bool {
	n := len(v)
	type indexed struct {
		idx int
		val Roll
	}
	arr := make([]indexed, n)
	for i, x := range v {
		arr[i] = indexed{idx: i, val: x}
	}

	if keepHigh {
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			arr[i], arr[j] = arr[j], arr[i]
		}
	}

	sort.SliceStable(arr, func(i, j int) bool {
		if keepHigh {
			return arr[i].val > arr[j].val
		}
		return arr[i].val < arr[j].val
	})

	keep := make([]bool, n)
	for i := 0; i < k && i < len(arr); i++ {
		keep[arr[i].idx] = true
	}
	return keep
}
