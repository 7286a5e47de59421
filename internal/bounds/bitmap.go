package bounds

import (
	"math/bits"

	"github.com/treesimjoin/simjoin/internal/bracket"
	"github.com/treesimjoin/simjoin/internal/label"
	"github.com/treesimjoin/simjoin/internal/treeindex"
)

// BitmapPolicy selects how label ids fold into the fixed-width bitmap.
type BitmapPolicy int

const (
	// BitmapSet marks bit(label id mod width) on any occurrence.
	BitmapSet BitmapPolicy = iota
	// BitmapXor toggles the bit on every occurrence, so an even count
	// of collisions at the same bit cancels out.
	BitmapXor
	// BitmapLinearProbe advances to the next empty bit on collision
	// (open addressing), reducing false folding versus Set/Xor.
	BitmapLinearProbe
)

// BitmapFilter folds a tree's label ids into a fixed-width bit array and
// derives a TED lower bound from the popcount of the XOR between two
// trees' bitmaps.
type BitmapFilter struct {
	Width  int
	Policy BitmapPolicy
}

// NewBitmapFilter returns a filter folding into width bits under policy.
func NewBitmapFilter(width int, policy BitmapPolicy) *BitmapFilter {
	return &BitmapFilter{Width: width, Policy: policy}
}

// Bitmap builds the folded bit array for t.
func (f *BitmapFilter) Bitmap(t *treeindex.Index) []uint64 {
	words := (f.Width + 63) / 64
	bmp := make([]uint64, words)
	occupied := make([]bool, f.Width)
	for _, l := range t.PostlToLabelID {
		bit := int(uint32(l)) % f.Width
		switch f.Policy {
		case BitmapSet:
			bmp[bit/64] |= 1 << uint(bit%64)
		case BitmapXor:
			bmp[bit/64] ^= 1 << uint(bit%64)
		case BitmapLinearProbe:
			start := bit
			for occupied[bit] {
				bit = (bit + 1) % f.Width
				if bit == start {
					break
				}
			}
			occupied[bit] = true
			bmp[bit/64] |= 1 << uint(bit%64)
		}
	}
	return bmp
}

// LowerBound returns max(|T1|,|T2|) - floor((|T1|+|T2|-popcount(b1^b2))/2),
// the bitmap filter lower bound from spec.md §4.8.
func (f *BitmapFilter) LowerBound(t1, t2 *treeindex.Index) float64 {
	b1 := f.Bitmap(t1)
	b2 := f.Bitmap(t2)
	popcount := 0
	for i := range b1 {
		popcount += bits.OnesCount64(b1[i] ^ b2[i])
	}
	n1, n2 := t1.Size, t2.Size
	maxN := n1
	if n2 > maxN {
		maxN = n2
	}
	return float64(maxN - (n1+n2-popcount)/2)
}

// JSONBitmapFilter keeps separate bitmaps for keys and literal values
// plus an exact count of structural (object and array) nodes, the JSON-aware variant
// from spec.md §4.8.
type JSONBitmapFilter struct {
	Keys   *BitmapFilter
	Values *BitmapFilter
}

// NewJSONBitmapFilter returns a filter with independent key/value
// bitmaps of the given width and policy.
func NewJSONBitmapFilter(width int, policy BitmapPolicy) *JSONBitmapFilter {
	return &JSONBitmapFilter{
		Keys:   NewBitmapFilter(width, policy),
		Values: NewBitmapFilter(width, policy),
	}
}

// LowerBound computes the JSON-aware bitmap lower bound: keys and values
// fold into separate bitmaps; the combined object-plus-array node count
// is compared exactly as |count1-count2| (objects and arrays are not
// counted separately).
func (f *JSONBitmapFilter) LowerBound(t1, t2 *treeindex.Index) float64 {
	keys1, vals1, struct1 := partitionByKind(t1)
	keys2, vals2, struct2 := partitionByKind(t2)

	keyLB := bitmapLowerBoundOn(f.Keys, keys1, keys2)
	valLB := bitmapLowerBoundOn(f.Values, vals1, vals2)
	structLB := absInt(len(struct1) - len(struct2))

	return keyLB + valLB + float64(structLB)
}

func partitionByKind(t *treeindex.Index) (keys, values []label.ID, structural []int) {
	for i, k := range t.PostlToType {
		switch k {
		case bracket.KindKey:
			keys = append(keys, t.PostlToLabelID[i])
		case bracket.KindValue:
			values = append(values, t.PostlToLabelID[i])
		default:
			structural = append(structural, i)
		}
	}
	return
}

func bitmapLowerBoundOn(f *BitmapFilter, a, b []label.ID) float64 {
	words := (f.Width + 63) / 64
	bmpA := make([]uint64, words)
	bmpB := make([]uint64, words)
	fold := func(ids []label.ID, bmp []uint64) {
		occupied := make([]bool, f.Width)
		for _, l := range ids {
			bit := int(uint32(l)) % f.Width
			switch f.Policy {
			case BitmapXor:
				bmp[bit/64] ^= 1 << uint(bit%64)
			case BitmapLinearProbe:
				start := bit
				for occupied[bit] {
					bit = (bit + 1) % f.Width
					if bit == start {
						break
					}
				}
				occupied[bit] = true
				bmp[bit/64] |= 1 << uint(bit%64)
			default:
				bmp[bit/64] |= 1 << uint(bit%64)
			}
		}
	}
	fold(a, bmpA)
	fold(b, bmpB)
	popcount := 0
	for i := range bmpA {
		popcount += bits.OnesCount64(bmpA[i] ^ bmpB[i])
	}
	maxN := len(a)
	if len(b) > maxN {
		maxN = len(b)
	}
	return float64(maxN - (len(a)+len(b)-popcount)/2)
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
