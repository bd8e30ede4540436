package board

import (
	"testing"

	"github.com/dylhunn/dragontoothmg"
	"golang.org/x/exp/slices"

	"github.com/ExtraHash/fry/pieces"
)

func registry(t *testing.T) *pieces.Registry {
	t.Helper()
	r, err := pieces.New()
	if err != nil {
		t.Fatalf("pieces.New: %v", err)
	}
	return r
}

func mustSquare(t *testing.T, s string) Square {
	t.Helper()
	sq, err := ParseSquare(s)
	if err != nil {
		t.Fatal(err)
	}
	return sq
}

// index uses dragontoothmg numbering: a1 = 0, h8 = 63.
func index(sq Square) int {
	return sq.Rank()*8 - 8 + sq.File
}

func indices(sqs []Square) []int {
	out := make([]int, 0, len(sqs))
	for _, sq := range sqs {
		out = append(out, index(sq))
	}
	slices.Sort(out)
	return out
}

// legalTargets asks dragontoothmg where the piece on `from` may go.
func legalTargets(fen string, from Square) []int {
	b := dragontoothmg.ParseFen(fen)
	var out []int
	for _, m := range b.GenerateLegalMoves() {
		if int(m.From()) == index(from) {
			out = append(out, int(m.To()))
		}
	}
	slices.Sort(out)
	return out
}

// The positions keep both kings out of every line so that legal moves and
// geometric reach coincide.
func TestReachMatchesMoveGenerator(t *testing.T) {
	r := registry(t)
	tests := []struct {
		fen  string
		from string
		n    int
	}{
		{"k7/8/8/8/3N4/8/8/7K w - - 0 1", "d4", 8},
		{"k7/8/8/8/8/8/8/N6K w - - 0 1", "a1", 2},
		{"k7/8/8/8/3B4/8/8/7K w - - 0 1", "d4", 13},
		{"k7/8/8/8/3R4/8/8/7K w - - 0 1", "d4", 14},
		{"k7/8/8/8/3Q4/8/8/7K w - - 0 1", "d4", 27},
		{"k7/8/8/8/3K4/8/8/8 w - - 0 1", "d4", 8},
		{"k7/8/3p4/8/3R4/8/3P4/7K w - - 0 1", "d4", 10},
		{"k7/8/8/8/8/3n1n2/4P3/7K w - - 0 1", "e2", 4},
		{"k7/8/8/8/8/4n3/4P3/7K w - - 0 1", "e2", 0},
		{"k7/8/8/8/4n3/8/4P3/7K w - - 0 1", "e2", 1},
		{"k7/4p3/8/8/8/8/8/7K b - - 0 1", "e7", 2},
		{"k7/8/8/8/8/4p3/8/7K b - - 0 1", "e3", 1},
	}
	for _, tt := range tests {
		b, err := ParsePlacement(tt.fen)
		if err != nil {
			t.Fatalf("%s: %v", tt.fen, err)
		}
		from := mustSquare(t, tt.from)
		got := indices(Reach(r, &b, from))
		want := legalTargets(tt.fen, from)
		if len(got) != tt.n {
			t.Errorf("%s %s: reach %d squares, want %d", tt.fen, tt.from, len(got), tt.n)
		}
		if !slices.Equal(got, want) {
			t.Errorf("%s %s: reach %v, move generator %v", tt.fen, tt.from, got, want)
		}
	}
}

func TestReachEmptySquare(t *testing.T) {
	r := registry(t)
	b := StartingBoard()
	if got := Reach(r, &b, mustSquare(t, "e4")); len(got) != 0 {
		t.Errorf("empty square reaches %v", got)
	}
	b.Set(mustSquare(t, "e4"), 'x')
	if got := Reach(r, &b, mustSquare(t, "e4")); len(got) != 0 {
		t.Errorf("unknown symbol reaches %v", got)
	}
}

func TestReachStartingPosition(t *testing.T) {
	r := registry(t)
	b := StartingBoard()
	total := 0
	for row := 0; row < 8; row++ {
		for file := 0; file < 8; file++ {
			sq := Square{File: file, Row: row}
			if b.At(sq).Color() == pieces.White {
				total += len(Reach(r, &b, sq))
			}
		}
	}
	if total != 20 {
		t.Errorf("white reaches %d squares from the start, want 20", total)
	}
}

func TestAttacked(t *testing.T) {
	r := registry(t)
	b, err := ParsePlacement("k7/8/3p4/8/3R4/8/3P4/7K")
	if err != nil {
		t.Fatal(err)
	}
	got := Attacked(r, &b, mustSquare(t, "d4"))
	if len(got) != 11 {
		t.Errorf("rook attacks %v, want 11 squares", got)
	}
	var sawOwnPawn bool
	for _, sq := range got {
		if sq.String() == "d2" {
			sawOwnPawn = true
		}
		if sq.String() == "d1" || sq.String() == "d7" {
			t.Errorf("ray passed through a piece to %v", sq)
		}
	}
	if !sawOwnPawn {
		t.Errorf("defended pawn on d2 not attacked")
	}

	pawn := Attacked(r, &b, mustSquare(t, "d2"))
	if len(pawn) != 2 || pawn[0].String() != "e3" || pawn[1].String() != "c3" {
		t.Errorf("pawn on d2 attacks %v, want [e3 c3]", pawn)
	}
}

func TestMaterial(t *testing.T) {
	r := registry(t)
	tests := []struct {
		placement string
		want      int
	}{
		{StartingPlacement, 0},
		{"k7/8/8/8/3R4/8/8/7K", 500},
		{"k7/8/3p4/8/3R4/8/3P4/7K", 500},
		{"k6q/8/8/8/8/8/8/1N5K", 320 - 900},
		{"8/8/8/8/8/8/8/8", 0},
	}
	for _, tt := range tests {
		b, err := ParsePlacement(tt.placement)
		if err != nil {
			t.Fatalf("%s: %v", tt.placement, err)
		}
		if got := Material(r, &b); got != tt.want {
			t.Errorf("Material(%s) = %d, want %d", tt.placement, got, tt.want)
		}
	}

	b := Empty()
	b.Set(Square{File: 0, Row: 0}, 'x')
	if got := Material(r, &b); got != 0 {
		t.Errorf("unknown symbol counted as %d", got)
	}
}
