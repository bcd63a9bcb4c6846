// Package lox дополняет samber/lo функциями, которых там нет.
package lox

// MapErr применяет iteratee к каждому элементу и останавливается на первой ошибке.
func MapErr[T, R any](collection []T, iteratee func(item T) (R, error)) ([]R, error) {
	result := make([]R, len(collection))

	for i, item := range collection {
		r, err := iteratee(item)
		if err != nil {
			return nil, err
		}

		result[i] = r
	}

	return result, nil
}

// Map - как lo.Map, но без индекса, чтобы конвертеры передавались напрямую.
func Map[T, R any](collection []T, iteratee func(item T) R) []R {
	result := make([]R, len(collection))

	for i, item := range collection {
		result[i] = iteratee(item)
	}

	return result
}
