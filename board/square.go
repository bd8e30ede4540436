package board

import "fmt"

// Square is a board coordinate. File 0 is the a-file, Row 0 is rank 8.
type Square struct {
	File int
	Row  int
}

// ParseSquare reads algebraic notation such as "e4".
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 || s[0] < 'a' || s[0] > 'h' || s[1] < '1' || s[1] > '8' {
		return Square{}, fmt.Errorf("bad square %q", s)
	}
	return Square{File: int(s[0] - 'a'), Row: int('8' - s[1])}, nil
}

func (sq Square) Valid() bool {
	return sq.File >= 0 && sq.File < 8 && sq.Row >= 0 && sq.Row < 8
}

// Rank is the 1-based chess rank.
func (sq Square) Rank() int {
	return 8 - sq.Row
}

func (sq Square) String() string {
	if !sq.Valid() {
		return "-"
	}
	return string([]byte{byte('a' + sq.File), byte('0' + sq.Rank())})
}

// MarshalText lets squares appear as "e4" in JSON.
func (sq Square) MarshalText() ([]byte, error) {
	return []byte(sq.String()), nil
}
