// Package board is a minimal 8x8 mailbox board built on piece symbols, plus
// the geometric reach of a piece as described by the piece registry.
package board

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ExtraHash/fry/pieces"
)

// Board is indexed [row][file]. Row 0 is rank 8.
type Board [8][8]pieces.Symbol

// StartingPlacement is the FEN placement field of the initial position.
const StartingPlacement = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR"

// Empty returns a board with no pieces.
func Empty() Board {
	var b Board
	for i := range b {
		for j := range b[i] {
			b[i][j] = pieces.Empty
		}
	}
	return b
}

// StartingBoard returns the initial position.
func StartingBoard() Board {
	b, err := ParsePlacement(StartingPlacement)
	if err != nil {
		panic(err)
	}
	return b
}

// At returns the symbol on sq, Empty when sq is off the board.
func (b *Board) At(sq Square) pieces.Symbol {
	if !sq.Valid() {
		return pieces.Empty
	}
	return b[sq.Row][sq.File]
}

// Set places s on sq. Off-board squares are ignored.
func (b *Board) Set(sq Square, s pieces.Symbol) {
	if !sq.Valid() {
		return
	}
	b[sq.Row][sq.File] = s
}

// ParsePlacement reads the placement field of a FEN string. Anything after the
// first space is ignored.
func ParsePlacement(fen string) (Board, error) {
	b := Empty()
	fields := strings.Fields(fen)
	if len(fields) == 0 {
		return b, errors.New("empty placement")
	}
	ranks := strings.Split(fields[0], "/")
	if len(ranks) != 8 {
		return b, fmt.Errorf("placement has %d ranks, want 8", len(ranks))
	}
	for row, rank := range ranks {
		file := 0
		for _, c := range rank {
			if c >= '1' && c <= '8' {
				file += int(c - '0')
				continue
			}
			s := pieces.Symbol(c)
			if c > 0x7F || s.Kind() == pieces.NoKind {
				return b, fmt.Errorf("rank %d: bad piece %q", 8-row, c)
			}
			if file >= 8 {
				return b, fmt.Errorf("rank %d: too many squares", 8-row)
			}
			b[row][file] = s
			file++
		}
		if file != 8 {
			return b, fmt.Errorf("rank %d: %d squares, want 8", 8-row, file)
		}
	}
	return b, nil
}

// Placement writes b back out as a FEN placement field.
func (b *Board) Placement() string {
	var sb strings.Builder
	for row := range b {
		if row > 0 {
			sb.WriteByte('/')
		}
		gap := 0
		for _, s := range b[row] {
			if s.Kind() == pieces.NoKind {
				gap++
				continue
			}
			if gap > 0 {
				sb.WriteByte(byte('0' + gap))
				gap = 0
			}
			sb.WriteByte(byte(s))
		}
		if gap > 0 {
			sb.WriteByte(byte('0' + gap))
		}
	}
	return sb.String()
}

// Serialize flattens b row by row, one byte per square.
func Serialize(b Board) []byte {
	serialized := make([]byte, 0, 64)
	for _, row := range b {
		for _, square := range row {
			serialized = append(serialized, byte(square))
		}
	}
	return serialized
}

// Deserialize is the inverse of Serialize. Missing squares stay empty and
// extra bytes are ignored.
func Deserialize(dat []byte) Board {
	b := Empty()
	for i, square := range dat {
		if i == 64 {
			break
		}
		b[i/8][i%8] = pieces.Symbol(square)
	}
	return b
}
