package utils

func Filter[T any](src []T, predicate func(T) bool) []T {
	dst := make([]T, 0, len(src))
	for _, item := range src {
		if predicate(item) {
			dst = append(dst, item)
		}
	}
	return dst
}

func Map[T any, U any](src []T, mapper func(T) U) []U {
	dst := make([]U, 0, len(src))
	for _, item := range src {
		dst = append(dst, mapper(item))
	}
	return dst
}

type Group[K comparable, T any] struct {
	Key   K
	Items []T
}

// GroupBy buckets items by key. Groups come back in the order their key was
// first seen and items keep their input order inside a group.
func GroupBy[T any, K comparable](items []T, keyFunc func(T) K) []Group[K, T] {
	index := make(map[K]int)
	var groups []Group[K, T]
	for _, item := range items {
		key := keyFunc(item)
		i, ok := index[key]
		if !ok {
			i = len(groups)
			index[key] = i
			groups = append(groups, Group[K, T]{Key: key})
		}
		groups[i].Items = append(groups[i].Items, item)
	}
	return groups
}
