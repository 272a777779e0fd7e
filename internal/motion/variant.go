package motion

// Rand is the random source consulted for beat reactions. *rand.Rand
// satisfies it; tests inject fixed sequences.
type Rand interface {
	Float64() float64
}

// Variant is one mutually exclusive reaction applied on a qualifying beat.
type Variant uint8

const (
	VariantNone Variant = iota
	VariantRotate
	VariantFlip
	VariantJitter
	VariantFlash
	VariantSpinX
	VariantSpinY
	VariantSpinZ
)

// CellVariants is the ordered reaction set for flat grid cells.
var CellVariants = []Variant{VariantRotate, VariantFlip, VariantJitter, VariantFlash}

// BoxVariants is the ordered reaction set for 3D boxes.
var BoxVariants = []Variant{VariantSpinX, VariantSpinY, VariantSpinZ}

// Pick maps a draw r in [0, 1) to one variant by splitting the interval into
// len(set) equal buckets in listed order. Bucket i covers [i/len, (i+1)/len).
func Pick(set []Variant, r float64) Variant {
	if len(set) == 0 {
		return VariantNone
	}
	return set[bucket(r, len(set))]
}

// bucket returns floor(r*n) clamped to [0, n).
func bucket(r float64, n int) int {
	i := int(r * float64(n))
	if i < 0 {
		return 0
	}
	if i >= n {
		return n - 1
	}
	return i
}

func (v Variant) String() string {
	switch v {
	case VariantRotate:
		return "rotate"
	case VariantFlip:
		return "flip"
	case VariantJitter:
		return "jitter"
	case VariantFlash:
		return "flash"
	case VariantSpinX:
		return "spin-x"
	case VariantSpinY:
		return "spin-y"
	case VariantSpinZ:
		return "spin-z"
	default:
		return "none"
	}
}
