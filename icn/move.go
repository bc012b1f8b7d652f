package icn

import (
	"fmt"
	"strings"
)

// Move is one ply: a from-square, a to-square, and an optional
// promotion piece name (empty when the move isn't a promotion).
type Move struct {
	From, To  Coord
	Promotion string
}

// EncodeMove renders a move as "x,y>x,y" or "x,y>x,y=<token>" when it
// carries a promotion.
func EncodeMove(m Move) (string, error) {
	s := fmt.Sprintf("%s>%s", m.From.String(), m.To.String())
	if m.Promotion == "" {
		return s, nil
	}
	token, err := TokenFor(m.Promotion)
	if err != nil {
		return "", err
	}
	return s + "=" + token, nil
}

// DecodeMove parses either the "=" form EncodeMove produces or the
// compact form used on the wire, where a promotion is a bare trailing
// letters-only token glued directly onto the to-square ("5,7>5,8Q").
// It is used both to replay archived games and, during play, to
// validate a client's submitted move shorthand before it reaches the
// board logic.
func DecodeMove(s string) (Move, error) {
	promo := ""
	body := s
	if i := strings.IndexByte(s, '='); i >= 0 {
		body = s[:i]
		promo = s[i+1:]
	}

	parts := strings.SplitN(body, ">", 2)
	if len(parts) != 2 {
		return Move{}, fmt.Errorf("icn: malformed move %q", s)
	}

	from, err := ParseCoord(parts[0])
	if err != nil {
		return Move{}, fmt.Errorf("icn: bad from-square in move %q: %w", s, err)
	}

	toPart := parts[1]
	if promo == "" {
		if i := strings.IndexFunc(toPart, isPromotionLetter); i >= 0 {
			promo = toPart[i:]
			toPart = toPart[:i]
		}
	}

	to, err := ParseCoord(toPart)
	if err != nil {
		return Move{}, fmt.Errorf("icn: bad to-square in move %q: %w", s, err)
	}

	m := Move{From: from, To: to}
	if promo != "" {
		name, err := PieceFor(promo)
		if err != nil {
			return Move{}, fmt.Errorf("icn: bad promotion in move %q: %w", s, err)
		}
		m.Promotion = name
	}
	return m, nil
}

func isPromotionLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
