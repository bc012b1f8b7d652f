package icn

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"go-chessd"
)

// Coord is a signed board square. Signed, unbounded coordinates let
// this notation describe boards larger than a standard 8x8 one.
type Coord struct {
	X, Y int64
}

func (c Coord) String() string {
	return fmt.Sprintf("%d,%d", c.X, c.Y)
}

// ParseCoord parses "x,y" with signed integer components. It rejects
// anything that isn't a base-10 integer, which naturally rejects
// "Infinity"/"NaN" and any other non-integer token.
func ParseCoord(s string) (Coord, error) {
	parts := strings.SplitN(s, ",", 2)
	if len(parts) != 2 {
		return Coord{}, fmt.Errorf("icn: malformed coordinate %q", s)
	}
	x, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return Coord{}, fmt.Errorf("icn: non-integer x in %q: %w", s, err)
	}
	y, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return Coord{}, fmt.Errorf("icn: non-integer y in %q: %w", s, err)
	}
	return Coord{X: x, Y: y}, nil
}

// PlacedPiece is one entry of a position: a piece of a given color at
// a square, optionally still carrying a special privilege (pawn
// double-push, castling right).
type PlacedPiece struct {
	At      Coord
	Piece   string
	Color   chessd.Color
	Special bool
}

// EncodePosition renders pieces as pipe-separated placements,
// "<token><x>,<y>[+]|…", sorted by (x, y) so the output is
// deterministic regardless of the input order.
func EncodePosition(pieces []PlacedPiece) (string, error) {
	sorted := make([]PlacedPiece, len(pieces))
	copy(sorted, pieces)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].At.X != sorted[j].At.X {
			return sorted[i].At.X < sorted[j].At.X
		}
		return sorted[i].At.Y < sorted[j].At.Y
	})

	parts := make([]string, len(sorted))
	for i, p := range sorted {
		token, err := TokenFor(p.Piece)
		if err != nil {
			return "", err
		}
		if p.Color == chessd.Black {
			token = strings.ToLower(token)
		}
		suffix := ""
		if p.Special {
			suffix = "+"
		}
		parts[i] = fmt.Sprintf("%s%s%s", token, p.At.String(), suffix)
	}
	return strings.Join(parts, "|"), nil
}

// DecodePosition parses a pipe-separated placement string back into
// placements. It rejects non-integer coordinates and unknown piece
// tokens.
func DecodePosition(s string) ([]PlacedPiece, error) {
	if s == "" {
		return nil, nil
	}
	if err := checkBalanced(s); err != nil {
		return nil, err
	}

	chunks := strings.Split(s, "|")
	pieces := make([]PlacedPiece, 0, len(chunks))
	for _, chunk := range chunks {
		piece, err := decodePlacement(chunk)
		if err != nil {
			return nil, err
		}
		pieces = append(pieces, piece)
	}
	return pieces, nil
}

func decodePlacement(chunk string) (PlacedPiece, error) {
	special := false
	if strings.HasSuffix(chunk, "+") {
		special = true
		chunk = chunk[:len(chunk)-1]
	}

	i := 0
	for i < len(chunk) && isAlpha(chunk[i]) {
		i++
	}
	if i == 0 {
		return PlacedPiece{}, fmt.Errorf("icn: missing piece token in placement %q", chunk)
	}
	token := chunk[:i]
	rest := chunk[i:]

	color := chessd.White
	upper := strings.ToUpper(token)
	if token != upper {
		color = chessd.Black
	}

	name, err := PieceFor(upper)
	if err != nil {
		return PlacedPiece{}, err
	}

	coord, err := ParseCoord(rest)
	if err != nil {
		return PlacedPiece{}, err
	}

	return PlacedPiece{At: coord, Piece: name, Color: color, Special: special}, nil
}

func isAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

// checkBalanced rejects a string containing unterminated {…} or […]
// groups.
func checkBalanced(s string) error {
	var braces, brackets int
	for _, r := range s {
		switch r {
		case '{':
			braces++
		case '}':
			braces--
		case '[':
			brackets++
		case ']':
			brackets--
		}
		if braces < 0 || brackets < 0 {
			return fmt.Errorf("icn: unbalanced grouping in %q", s)
		}
	}
	if braces != 0 || brackets != 0 {
		return fmt.Errorf("icn: unterminated grouping in %q", s)
	}
	return nil
}
