// Package icn implements the compact archival notation used to log
// completed games: a position encoding, a move encoding, and a header
// block tying them together.
package icn

import "fmt"

// pieceDict is the fixed mapping between long piece names and their
// 1-3 letter tokens. Case is not part of the dictionary itself — it's
// applied by the caller to encode color (uppercase White, lowercase
// Black), same as standard chess notation.
var pieceDict = map[string]string{
	"king":        "K",
	"queen":       "Q",
	"rook":        "R",
	"bishop":      "B",
	"knight":      "N",
	"pawn":        "P",
	"archbishop":  "AB",
	"chancellor":  "CH",
	"amazon":      "AM",
	"guard":       "GU",
	"hawk":        "HA",
	"knightrider": "NR",
	"centaur":     "CE",
}

var tokenToPiece map[string]string

func init() {
	tokenToPiece = make(map[string]string, len(pieceDict))
	for name, token := range pieceDict {
		tokenToPiece[token] = name
	}
}

// TokenFor returns the dictionary token for a long piece name. Unknown
// names in either direction are errors.
func TokenFor(piece string) (string, error) {
	token, ok := pieceDict[piece]
	if !ok {
		return "", fmt.Errorf("icn: unknown piece name %q", piece)
	}
	return token, nil
}

// PieceFor returns the long piece name for a dictionary token. The
// lookup is case-sensitive against the upper-case tokens: callers
// should upper-case the token before lookup, since case carries color
// information rather than being part of the token itself.
func PieceFor(token string) (string, error) {
	name, ok := tokenToPiece[token]
	if !ok {
		return "", fmt.Errorf("icn: unknown piece token %q", token)
	}
	return name, nil
}
