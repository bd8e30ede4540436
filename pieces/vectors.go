package pieces

import (
	"encoding/json"
	"fmt"
)

// MaxVectors is the largest direction set any piece needs (king, queen, knight).
const MaxVectors = 8

// Displacement is one relative step: DX along files, DY along rows.
// Row 0 is rank 8, so a positive DY moves toward white's side.
type Displacement struct {
	DX int `json:"dx"`
	DY int `json:"dy"`
}

func (d Displacement) String() string {
	return fmt.Sprintf("(%d,%d)", d.DX, d.DY)
}

// Vectors is an ordered, fixed-capacity set of displacements. It is a value
// type, so descriptors handed out by the registry can't alias its storage.
type Vectors struct {
	n int
	d [MaxVectors]Displacement
}

// NewVectors packs ds in order. It fails if there are more than MaxVectors.
func NewVectors(ds ...Displacement) (Vectors, error) {
	var v Vectors
	if len(ds) > MaxVectors {
		return v, fmt.Errorf("%d displacements exceed capacity %d", len(ds), MaxVectors)
	}
	v.n = copy(v.d[:], ds)
	return v, nil
}

func (v Vectors) Len() int {
	return v.n
}

func (v Vectors) At(i int) Displacement {
	return v.d[:v.n][i]
}

// Slice returns a fresh copy of the displacements.
func (v Vectors) Slice() []Displacement {
	out := make([]Displacement, v.n)
	copy(out, v.d[:v.n])
	return out
}

func (v Vectors) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Slice())
}

// OptionalVectors is a set of vectors that may be absent.
type OptionalVectors struct {
	v  Vectors
	ok bool
}

// Some wraps v as a present value.
func Some(v Vectors) OptionalVectors {
	return OptionalVectors{v: v, ok: true}
}

// Get returns the vectors and whether they are present.
func (o OptionalVectors) Get() (Vectors, bool) {
	return o.v, o.ok
}

// MarshalJSON encodes an absent set as null.
func (o OptionalVectors) MarshalJSON() ([]byte, error) {
	if !o.ok {
		return []byte("null"), nil
	}
	return o.v.MarshalJSON()
}
