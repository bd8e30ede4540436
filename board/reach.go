package board

import "github.com/ExtraHash/fry/pieces"

// Table is the part of the piece registry a board needs.
type Table interface {
	Lookup(pieces.Symbol) pieces.Descriptor
}

// pawn start rows, by color
var startRow = [2]int{6, 1}

func occupied(s pieces.Symbol) bool {
	return s.Kind() != pieces.NoKind
}

// walk visits the squares along dir from `from`, once or until the edge when
// repeat is set. visit returns false to stop early.
func walk(b *Board, from Square, dir pieces.Displacement, repeat bool, visit func(Square, pieces.Symbol) bool) {
	sq := from
	for {
		sq = Square{File: sq.File + dir.DX, Row: sq.Row + dir.DY}
		if !sq.Valid() || !visit(sq, b.At(sq)) || !repeat {
			return
		}
	}
}

// Reach lists the squares the piece on `from` could move or capture to on b,
// judged by geometry alone. Checks, pins, castling and en passant are left to
// the caller. An empty or unknown square reaches nothing.
func Reach(t Table, b *Board, from Square) []Square {
	d := t.Lookup(b.At(from))
	if d.IsEmpty() {
		return nil
	}
	color := d.Color()
	_, split := d.Attacks.Get()
	var out []Square

	for i := 0; i < d.Moves.Len(); i++ {
		walk(b, from, d.Moves.At(i), d.Repeats, func(to Square, s pieces.Symbol) bool {
			if !occupied(s) {
				out = append(out, to)
				return true
			}
			if !split && s.Color() != color {
				out = append(out, to)
			}
			return false
		})
	}

	if d.Kind() == pieces.Pawn && from.Row == startRow[color] {
		for i := 0; i < d.Moves.Len(); i++ {
			step := d.Moves.At(i)
			one := Square{File: from.File + step.DX, Row: from.Row + step.DY}
			two := Square{File: one.File + step.DX, Row: one.Row + step.DY}
			if two.Valid() && !occupied(b.At(one)) && !occupied(b.At(two)) {
				out = append(out, two)
			}
		}
	}

	if split {
		att := d.AttackVectors()
		for i := 0; i < att.Len(); i++ {
			walk(b, from, att.At(i), d.Repeats, func(to Square, s pieces.Symbol) bool {
				if !occupied(s) {
					return true
				}
				if s.Color() != color {
					out = append(out, to)
				}
				return false
			})
		}
	}
	return out
}

// Attacked lists the squares the piece on `from` attacks, occupied or not.
// A ray includes the first piece it meets, whatever its color.
func Attacked(t Table, b *Board, from Square) []Square {
	d := t.Lookup(b.At(from))
	if d.IsEmpty() {
		return nil
	}
	var out []Square
	att := d.AttackVectors()
	for i := 0; i < att.Len(); i++ {
		walk(b, from, att.At(i), d.Repeats, func(to Square, s pieces.Symbol) bool {
			out = append(out, to)
			return !occupied(s)
		})
	}
	return out
}

// Material sums piece values over b in centipawns, white positive and black
// negative. Empty and unknown squares count zero.
func Material(t Table, b *Board) int {
	sum := 0
	for row := range b {
		for _, s := range b[row] {
			d := t.Lookup(s)
			switch d.Color() {
			case pieces.White:
				sum += d.Value
			case pieces.Black:
				sum -= d.Value
			}
		}
	}
	return sum
}
