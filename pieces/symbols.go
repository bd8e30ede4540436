package pieces

// Symbol is the ASCII code of a piece as it appears on the board.
// Uppercase is white, lowercase is black.
type Symbol byte

const (
	WhitePawn   Symbol = 'P'
	WhiteKnight Symbol = 'N'
	WhiteBishop Symbol = 'B'
	WhiteRook   Symbol = 'R'
	WhiteQueen  Symbol = 'Q'
	WhiteKing   Symbol = 'K'

	BlackPawn   Symbol = 'p'
	BlackKnight Symbol = 'n'
	BlackBishop Symbol = 'b'
	BlackRook   Symbol = 'r'
	BlackQueen  Symbol = 'q'
	BlackKing   Symbol = 'k'

	// Empty marks a square with no piece on it.
	Empty Symbol = ' '
)

// Color of a piece.
type Color uint8

const (
	White Color = iota
	Black
	NoColor
)

func (c Color) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "none"
	}
}

// Kind is a piece type regardless of color.
type Kind uint8

const (
	Pawn Kind = iota
	Knight
	Bishop
	Rook
	Queen
	King
	NoKind
)

var kindLetters = [...]byte{'P', 'N', 'B', 'R', 'Q', 'K'}

func (k Kind) String() string {
	switch k {
	case Pawn:
		return "pawn"
	case Knight:
		return "knight"
	case Bishop:
		return "bishop"
	case Rook:
		return "rook"
	case Queen:
		return "queen"
	case King:
		return "king"
	default:
		return "none"
	}
}

// Symbol returns the board code for a piece of kind k and color c, or Empty.
func (k Kind) Symbol(c Color) Symbol {
	if k >= NoKind || c >= NoColor {
		return Empty
	}
	letter := kindLetters[k]
	if c == Black {
		letter += 'a' - 'A'
	}
	return Symbol(letter)
}

// Kind returns the piece type, NoKind for the sentinel and unknown codes.
func (s Symbol) Kind() Kind {
	upper := byte(s)
	if upper >= 'a' && upper <= 'z' {
		upper -= 'a' - 'A'
	}
	for k, letter := range kindLetters {
		if letter == upper {
			return Kind(k)
		}
	}
	return NoKind
}

// Color returns the side a symbol belongs to, NoColor if it is not a piece.
func (s Symbol) Color() Color {
	if s.Kind() == NoKind {
		return NoColor
	}
	if s >= 'a' {
		return Black
	}
	return White
}

func (s Symbol) String() string {
	return string(rune(s))
}
