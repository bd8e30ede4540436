// Package pieces holds the movement, attack and value facts for every chess
// piece, keyed by the piece's board symbol.
package pieces

import (
	"encoding/json"
	"errors"
	"fmt"

	"golang.org/x/exp/slices"
)

var (
	// ErrInitialization is returned when the piece table can't be built.
	// The engine can't run without it.
	ErrInitialization = errors.New("piece table initialization failed")
	// ErrUnknownSymbol is returned by Find for codes outside the piece alphabet.
	ErrUnknownSymbol = errors.New("unknown piece symbol")
)

// Descriptor is everything the move generator needs to know about one kind of piece.
type Descriptor struct {
	Value   int             `json:"value"`   // centipawns
	Symbol  Symbol          `json:"symbol"`
	Repeats bool            `json:"repeats"` // slide along each direction until blocked
	Moves   Vectors         `json:"moves"`
	Attacks OptionalVectors `json:"attacks"` // absent: same as Moves
}

// AttackVectors returns the capture geometry, falling back to Moves.
func (d Descriptor) AttackVectors() Vectors {
	if att, ok := d.Attacks.Get(); ok {
		return att
	}
	return d.Moves
}

func (d Descriptor) Kind() Kind {
	return d.Symbol.Kind()
}

func (d Descriptor) Color() Color {
	return d.Symbol.Color()
}

// IsEmpty reports whether d is the empty-square sentinel.
func (d Descriptor) IsEmpty() bool {
	return d.Symbol == Empty
}

// MarshalJSON renders the symbol as a one-character string.
func (d Descriptor) MarshalJSON() ([]byte, error) {
	type alias Descriptor
	return json.Marshal(struct {
		alias
		Symbol string `json:"symbol"`
		Kind   string `json:"kind"`
		Color  string `json:"color"`
	}{alias(d), d.Symbol.String(), d.Kind().String(), d.Color().String()})
}

var empty = Descriptor{Symbol: Empty}

type pieceDef struct {
	sym     Symbol
	value   int
	repeats bool
	moves   []Displacement
	attacks []Displacement // nil when captures follow moves
}

var (
	orthogonal = []Displacement{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	diagonal   = []Displacement{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	allDirs    = append(append([]Displacement{}, orthogonal...), diagonal...)
	jumps      = []Displacement{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}}
)

// canonical lists the pieces in the order All returns them. Row 0 is rank 8,
// so white pawns advance with DY -1 and black pawns with DY +1.
var canonical = []pieceDef{
	{WhitePawn, 100, false, []Displacement{{0, -1}}, []Displacement{{1, -1}, {-1, -1}}},
	{WhiteKnight, 320, false, jumps, nil},
	{WhiteBishop, 330, true, diagonal, nil},
	{WhiteRook, 500, true, orthogonal, nil},
	{WhiteQueen, 900, true, allDirs, nil},
	{WhiteKing, 20000, false, allDirs, nil},
	{BlackPawn, 100, false, []Displacement{{0, 1}}, []Displacement{{1, 1}, {-1, 1}}},
	{BlackKnight, 320, false, jumps, nil},
	{BlackBishop, 330, true, diagonal, nil},
	{BlackRook, 500, true, orthogonal, nil},
	{BlackQueen, 900, true, allDirs, nil},
	{BlackKing, 20000, false, allDirs, nil},
}

// Registry maps every possible symbol byte to a descriptor. Once Init returns
// it is never written again, so any number of goroutines may read it.
type Registry struct {
	table [256]Descriptor
	ready bool
}

// New allocates a registry and initializes it.
func New() (*Registry, error) {
	r := &Registry{}
	if err := r.Init(); err != nil {
		return nil, err
	}
	return r, nil
}

// Init fills the table with the canonical pieces. Calling it again rebuilds
// the same values. It must complete before the registry is shared.
func (r *Registry) Init() error {
	return r.load(canonical)
}

// load replaces the table with defs. On error the registry is left as it was.
func (r *Registry) load(defs []pieceDef) error {
	var table [256]Descriptor
	for i := range table {
		table[i] = empty
	}
	for _, def := range defs {
		d, err := def.build()
		if err != nil {
			return fmt.Errorf("%w: %c: %v", ErrInitialization, def.sym, err)
		}
		table[def.sym] = d
	}
	r.table = table
	r.ready = true
	return nil
}

func (def pieceDef) build() (Descriptor, error) {
	if def.sym.Kind() == NoKind {
		return Descriptor{}, errors.New("not a piece symbol")
	}
	if err := checkDirections(def.moves); err != nil {
		return Descriptor{}, err
	}
	d := Descriptor{Value: def.value, Symbol: def.sym, Repeats: def.repeats}
	var err error
	if d.Moves, err = NewVectors(def.moves...); err != nil {
		return Descriptor{}, err
	}
	if def.attacks != nil {
		if err := checkDirections(def.attacks); err != nil {
			return Descriptor{}, err
		}
		att, err := NewVectors(def.attacks...)
		if err != nil {
			return Descriptor{}, err
		}
		d.Attacks = Some(att)
	}
	return d, nil
}

func checkDirections(ds []Displacement) error {
	if len(ds) == 0 {
		return errors.New("no directions")
	}
	for i, d := range ds {
		if d == (Displacement{}) {
			return errors.New("zero displacement")
		}
		if slices.Contains(ds[:i], d) {
			return fmt.Errorf("duplicate displacement %v", d)
		}
	}
	return nil
}

// Lookup returns the descriptor for s. Codes outside the piece alphabet, and
// any code on a registry that was never initialized, yield the empty sentinel.
func (r *Registry) Lookup(s Symbol) Descriptor {
	if !r.ready {
		return empty
	}
	return r.table[s]
}

// LookupRune is Lookup for runes; anything beyond one byte is unknown.
func (r *Registry) LookupRune(c rune) Descriptor {
	if c < 0 || c > 0xFF {
		return empty
	}
	return r.Lookup(Symbol(c))
}

// Known reports whether s is one of the twelve pieces or the empty sentinel.
func (r *Registry) Known(s Symbol) bool {
	return s == Empty || s.Kind() != NoKind
}

// Find is the strict form of Lookup. It fails on a registry that was never
// initialized.
func (r *Registry) Find(s Symbol) (Descriptor, error) {
	if !r.ready {
		return empty, fmt.Errorf("%w: registry not initialized", ErrInitialization)
	}
	if !r.Known(s) {
		return empty, fmt.Errorf("%w: %q", ErrUnknownSymbol, byte(s))
	}
	return r.Lookup(s), nil
}

// All returns the twelve piece descriptors, white pawn first, black king last.
func (r *Registry) All() []Descriptor {
	out := make([]Descriptor, 0, len(canonical))
	for _, def := range canonical {
		out = append(out, r.Lookup(def.sym))
	}
	return out
}
