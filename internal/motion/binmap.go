package motion

// MapIndex binds the element at ordinal to a frequency bin. Elements are
// enumerated row-major, so bins read low to high across a grid. Several
// elements may share a bin.
func MapIndex(ordinal, stride, n int) int {
	if n <= 0 {
		return 0
	}
	i := (ordinal * stride) % n
	if i < 0 {
		i += n
	}
	return i
}

// MapSpread spreads count elements proportionally across the first span bins.
func MapSpread(ordinal, count, span, n int) int {
	if count <= 0 || n <= 0 {
		return 0
	}
	return MapIndex(ordinal*span/count, 1, n)
}
