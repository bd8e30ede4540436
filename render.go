package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/ExtraHash/fry/board"
	"github.com/ExtraHash/fry/pieces"
)

var (
	whitePiece  = color.New(color.Bold)
	blackPiece  = color.New(color.Faint)
	highlighted = color.New(color.ReverseVideo)
)

// renderBoard prints b from rank 8 down, with the highlighted squares in
// reverse video.
func renderBoard(w io.Writer, b board.Board, highlight []board.Square) {
	marked := map[board.Square]bool{}
	for _, sq := range highlight {
		marked[sq] = true
	}
	for row := 0; row < 8; row++ {
		fmt.Fprintf(w, " %d | ", 8-row)
		for file := 0; file < 8; file++ {
			sq := board.Square{File: file, Row: row}
			cell := " . "
			s := b.At(sq)
			if s.Kind() != pieces.NoKind {
				cell = " " + s.String() + " "
			}
			switch {
			case marked[sq]:
				highlighted.Fprint(w, cell)
			case s.Color() == pieces.White:
				whitePiece.Fprint(w, cell)
			case s.Color() == pieces.Black:
				blackPiece.Fprint(w, cell)
			default:
				fmt.Fprint(w, cell)
			}
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintln(w, "   +  -  -  -  -  -  -  -  -")
	fmt.Fprint(w, "     ")
	for _, c := range "abcdefgh" {
		fmt.Fprintf(w, " %c ", c)
	}
	fmt.Fprintln(w)
}

// printReach renders the board in placement with the reach of the piece on
// square highlighted.
func printReach(w io.Writer, reg *pieces.Registry, placement, square string) error {
	b, err := board.ParsePlacement(placement)
	if err != nil {
		return err
	}
	var highlight []board.Square
	if square != "" {
		sq, err := board.ParseSquare(square)
		if err != nil {
			return err
		}
		highlight = board.Reach(reg, &b, sq)
		d := reg.Lookup(b.At(sq))
		fmt.Fprintf(w, "%s on %s: %d squares\n", d.Symbol, sq, len(highlight))
	}
	renderBoard(w, b, highlight)
	return nil
}
