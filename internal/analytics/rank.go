package analytics

import (
	"slices"
	"strings"
)

// Rank сортирует копию по убыванию measure. Сортировка стабильная:
// без tieBreak равные остаются в исходном порядке. Алфавитный порядок
// меток при равенстве дает RankByLabel.
func Rank[T any](items []T, measure func(T) float64, tieBreak func(a, b T) int) []T {
	out := slices.Clone(items)
	if out == nil {
		out = make([]T, 0)
	}
	slices.SortStableFunc(out, func(a, b T) int {
		ma, mb := measure(a), measure(b)
		switch {
		case ma > mb:
			return -1
		case ma < mb:
			return 1
		}
		if tieBreak != nil {
			return tieBreak(a, b)
		}
		return 0
	})
	return out
}

// RankByLabel - Rank с разрешением ничьих по метке в алфавитном порядке.
func RankByLabel[T any](items []T, measure func(T) float64, label func(T) string) []T {
	return Rank(items, measure, ByLabel(label))
}

func ByLabel[T any](label func(T) string) func(a, b T) int {
	return func(a, b T) int {
		return strings.Compare(label(a), label(b))
	}
}

// TopN не паникует на коротких срезах.
func TopN[T any](items []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(items) < n {
		n = len(items)
	}
	out := make([]T, n)
	copy(out, items[:n])
	return out
}
