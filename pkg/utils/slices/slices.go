package slices

// map each element in sli.
//
// args:
//     - sli : slice of `T`s
//     - mapper : mapping function from T to R
// return:
//     slice of `R`s.
//     each element indexed `N` is given with `mapper(sli[N])` .
func Map[T any, R any](sli []T, mapper func(v T) R) []R {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		ret[nth] = mapper(v)
	}
	return ret
}

// Map over sli with mapper.
//
// If mapper causes error, return (nil, error).
//
// Otherwise, return (mapping result, nil).
func MapUntilError[T any, R any](sli []T, mapper func(v T) (R, error)) ([]R, error) {
	ret := make([]R, len(sli))
	for nth, v := range sli {
		r, err := mapper(v)
		if err != nil {
			return nil, err
		}
		ret[nth] = r
	}
	return ret, nil
}

// KeysOf extracts keys of the map, in no particular order.
func KeysOf[K comparable, V any](m map[K]V) []K {
	ret := make([]K, 0, len(m))
	for k := range m {
		ret = append(ret, k)
	}
	return ret
}

// Filter returns a new slice of elements satisfying the predicate,
// keeping their order.
func Filter[T any](sli []T, predicate func(v T) bool) []T {
	ret := []T{}
	for _, v := range sli {
		if predicate(v) {
			ret = append(ret, v)
		}
	}
	return ret
}

// First finds the first element satisfying the predicate.
func First[T any](sli []T, predicate func(v T) bool) (T, bool) {
	for _, v := range sli {
		if predicate(v) {
			return v, true
		}
	}
	return *new(T), false
}

// Contains reports whether any element satisfies the predicate.
func Contains[T any](sli []T, predicate func(v T) bool) bool {
	_, ok := First(sli, predicate)
	return ok
}

// Concat concatenates slices into a new one.
func Concat[T any](sli ...[]T) []T {
	total := 0
	for _, s := range sli {
		total += len(s)
	}
	ret := make([]T, 0, total)
	for _, s := range sli {
		ret = append(ret, s...)
	}
	return ret
}
