package matrix

// BandMatrix is a Matrix[T](rows, 2w+1) with a column translation
// c' = c + w - r, so only cells with |r-c| <= w occupy real storage.
// Outside-band access is undefined; callers gate by the band test
// themselves before calling At/Set (this mirrors the source's contract).
type BandMatrix[T any] struct {
	w int
	m *Matrix[T]
}

// NewBand allocates a band matrix for `rows` rows and half-width w.
func NewBand[T any](rows, w int) *BandMatrix[T] {
	return &BandMatrix[T]{w: w, m: New[T](rows, 2*w+1)}
}

// Width returns the band half-width w.
func (b *BandMatrix[T]) Width() int { return b.w }

// InBand reports whether (r,c) falls within the stored band.
func (b *BandMatrix[T]) InBand(r, c int) bool {
	d := r - c
	if d < 0 {
		d = -d
	}
	return d <= b.w
}

// At returns the value at (r,c). Only valid when InBand(r,c).
func (b *BandMatrix[T]) At(r, c int) (T, error) {
	return b.m.At(r, c+b.w-r)
}

// Set writes v at (r,c). Only valid when InBand(r,c).
func (b *BandMatrix[T]) Set(r, c int, v T) error {
	return b.m.Set(r, c+b.w-r, v)
}

// MustAt is the panicking counterpart of At.
func (b *BandMatrix[T]) MustAt(r, c int) T {
	return b.m.MustAt(r, c+b.w-r)
}

// MustSet is the panicking counterpart of Set.
func (b *BandMatrix[T]) MustSet(r, c int, v T) {
	b.m.MustSet(r, c+b.w-r, v)
}

// FillWith writes v into every stored cell (including those outside any
// caller's logical band-usage, since the backing matrix is fully dense
// within its folded storage shape).
func (b *BandMatrix[T]) FillWith(v T) {
	b.m.FillWith(v)
}
