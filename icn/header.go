package icn

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"go-chessd"
)

// Record is a full archived game: the header block, the single
// metadata line, the starting position, and the move list. Parse and
// Serialize are inverses of each other for any Record Serialize can
// produce.
type Record struct {
	// Headers preserves insertion order; archival readers rely on
	// headers appearing in the order they were written.
	Headers []HeaderField

	Turn          chessd.Color
	EnPassant     *Coord
	MoveRuleCount int64
	MoveRuleLimit int64
	FullMove      int64
	// PromotionRanks and WinConditions are carried verbatim inside the
	// metadata line's parenthetical group; neither is interpreted by
	// this package.
	PromotionRanks string
	WinConditions  string
	// Metadata is the trailing {...} JSON blob, kept as raw bytes since
	// its schema is variant-specific and opaque to archival.
	Metadata json.RawMessage

	Position []PlacedPiece
	Moves    []Move
}

type HeaderField struct {
	Key, Value string
}

// Serialize renders a Record as the header block (one "[Key: Value]"
// pair per line, then a blank line), the metadata line, the position,
// then the space-separated move list.
func Serialize(r Record) (string, error) {
	var b strings.Builder

	for _, h := range r.Headers {
		fmt.Fprintf(&b, "[%s: %s]\n", h.Key, h.Value)
	}
	b.WriteByte('\n')

	meta, err := serializeMetaLine(r)
	if err != nil {
		return "", err
	}
	b.WriteString(meta)
	b.WriteByte('\n')

	pos, err := EncodePosition(r.Position)
	if err != nil {
		return "", err
	}
	b.WriteString(pos)
	b.WriteByte('\n')

	moveTokens := make([]string, len(r.Moves))
	for i, m := range r.Moves {
		tok, err := EncodeMove(m)
		if err != nil {
			return "", err
		}
		moveTokens[i] = tok
	}
	b.WriteString(strings.Join(moveTokens, " "))

	return b.String(), nil
}

func serializeMetaLine(r Record) (string, error) {
	turn := "w"
	if r.Turn == chessd.Black {
		turn = "b"
	}

	ep := "-"
	if r.EnPassant != nil {
		ep = r.EnPassant.String()
	}

	moveRule := fmt.Sprintf("%d/%d", r.MoveRuleCount, r.MoveRuleLimit)

	line := fmt.Sprintf("%s %s %s %d", turn, ep, moveRule, r.FullMove)

	if r.PromotionRanks != "" || r.WinConditions != "" {
		line += fmt.Sprintf(" (%s;%s)", r.PromotionRanks, r.WinConditions)
	}

	if len(r.Metadata) > 0 {
		if !json.Valid(r.Metadata) {
			return "", fmt.Errorf("icn: metadata is not valid JSON")
		}
		line += " " + string(r.Metadata)
	}

	return line, nil
}

// Parse is the inverse of Serialize: it reads the header block, the
// metadata line, the position, and the move list back out of an
// archived record's text.
func Parse(s string) (Record, error) {
	lines := strings.Split(s, "\n")

	var headers []HeaderField
	i := 0
	for ; i < len(lines); i++ {
		line := lines[i]
		if line == "" {
			i++
			break
		}
		if !isHeaderLine(line) {
			return Record{}, fmt.Errorf("icn: malformed header line %q", line)
		}
		key, value, ok := strings.Cut(line[1:len(line)-1], ": ")
		if !ok {
			return Record{}, fmt.Errorf("icn: malformed header line %q", line)
		}
		headers = append(headers, HeaderField{Key: key, Value: value})
	}

	if i >= len(lines) {
		return Record{}, fmt.Errorf("icn: missing metadata line")
	}
	r := Record{Headers: headers}
	if err := parseMetaLine(lines[i], &r); err != nil {
		return Record{}, err
	}
	i++

	if i >= len(lines) {
		return Record{}, fmt.Errorf("icn: missing position line")
	}
	pos, err := DecodePosition(lines[i])
	if err != nil {
		return Record{}, err
	}
	r.Position = pos
	i++

	if i < len(lines) && strings.TrimSpace(lines[i]) != "" {
		tokens := strings.Fields(lines[i])
		moves := make([]Move, len(tokens))
		for j, tok := range tokens {
			m, err := DecodeMove(tok)
			if err != nil {
				return Record{}, err
			}
			moves[j] = m
		}
		r.Moves = moves
	}

	return r, nil
}

// isHeaderLine reports whether line is a "[Key: Value]" header rather
// than the blank separator or the metadata line that follows it.
func isHeaderLine(line string) bool {
	return strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]")
}

func parseMetaLine(line string, r *Record) error {
	rest := line
	var turnTok string
	turnTok, rest, _ = strings.Cut(rest, " ")
	switch turnTok {
	case "w":
		r.Turn = chessd.White
	case "b":
		r.Turn = chessd.Black
	default:
		return fmt.Errorf("icn: bad turn indicator in metadata line %q", line)
	}

	var epTok string
	epTok, rest, _ = strings.Cut(rest, " ")
	if epTok != "-" {
		ep, err := ParseCoord(epTok)
		if err != nil {
			return fmt.Errorf("icn: bad en passant square in metadata line %q: %w", line, err)
		}
		r.EnPassant = &ep
	}

	var moveRuleTok string
	moveRuleTok, rest, _ = strings.Cut(rest, " ")
	count, limit, err := parseFraction(moveRuleTok)
	if err != nil {
		return fmt.Errorf("icn: bad move-rule fraction in metadata line %q: %w", line, err)
	}
	r.MoveRuleCount, r.MoveRuleLimit = count, limit

	var fullMoveTok string
	fullMoveTok, rest, _ = cutNextToken(rest)
	full, err := strconv.ParseInt(fullMoveTok, 10, 64)
	if err != nil {
		return fmt.Errorf("icn: bad fullmove counter in metadata line %q: %w", line, err)
	}
	r.FullMove = full

	rest = strings.TrimSpace(rest)
	if rest == "" {
		return nil
	}

	if rest[0] == '(' {
		end := strings.IndexByte(rest, ')')
		if end < 0 {
			return fmt.Errorf("icn: unterminated group in metadata line %q", line)
		}
		group := rest[1:end]
		ranks, winconds, _ := strings.Cut(group, ";")
		r.PromotionRanks = ranks
		r.WinConditions = winconds
		rest = strings.TrimSpace(rest[end+1:])
	}

	if rest == "" {
		return nil
	}
	if !json.Valid([]byte(rest)) {
		return fmt.Errorf("icn: trailing metadata %q is not valid JSON", rest)
	}
	r.Metadata = json.RawMessage(rest)
	return nil
}

func cutNextToken(s string) (token, rest string, found bool) {
	s = strings.TrimPrefix(s, " ")
	return strings.Cut(s, " ")
}

func parseFraction(s string) (count, limit int64, err error) {
	a, b, ok := strings.Cut(s, "/")
	if !ok {
		return 0, 0, fmt.Errorf("malformed fraction %q", s)
	}
	count, err = strconv.ParseInt(a, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	limit, err = strconv.ParseInt(b, 10, 64)
	if err != nil {
		return 0, 0, err
	}
	return count, limit, nil
}
