package chessd

import "strings"

// Conclusion is the terminal tag of a game. Active means the game is
// still being played; every other value is a terminal tag, spelled
// exactly as it appears on the wire (e.g. "white checkmate", "white
// time", "black resignation", "draw agreement", "Aborted").
type Conclusion string

// Active is the zero value: the game has not concluded.
const Active Conclusion = ""

// Aborted: ended before it became resignable, or by a successful cheat
// report.
const Aborted Conclusion = "Aborted"

// Conclusion constructors for the causes the session manager itself
// produces. Each tag names the *winning* seat, e.g. a timeout by Black
// produces "white time". Board-decisive conclusions (checkmate,
// stalemate, repetition, move-rule, insufficient material, ...) are
// supplied by the client in the submitmove payload and are not
// enumerated here; IsDecisive below classifies any such string.
func TimeLoss(loser Color) Conclusion {
	return Conclusion(loser.Opposite().String() + " time")
}

func Resignation(loser Color) Conclusion {
	return Conclusion(loser.Opposite().String() + " resignation")
}

func Disconnect(loser Color) Conclusion {
	return Conclusion(loser.Opposite().String() + " disconnect")
}

const DrawAgreement Conclusion = "draw agreement"

// IsActive reports whether the game has not yet concluded.
func (c Conclusion) IsActive() bool {
	return c == Active
}

// Winner returns the color that won this conclusion, or false if the
// conclusion has no winner (draw, abort, or active). Decisive tags
// name the winning seat directly.
func (c Conclusion) Winner() (Color, bool) {
	s := string(c)
	if strings.HasPrefix(s, "white ") {
		return White, true
	}
	if strings.HasPrefix(s, "black ") {
		return Black, true
	}
	return White, false
}

// IsDecisive reports whether termination was caused by the board
// itself (checkmate, stalemate, repetition, move-rule, insufficient
// material, royal capture, ...) as opposed to resignation, timeout,
// disconnect, or abort.
func (c Conclusion) IsDecisive() bool {
	s := string(c)
	if s == "" || s == string(Aborted) {
		return false
	}
	for _, suffix := range []string{" resignation", " time", " disconnect"} {
		if strings.HasSuffix(s, suffix) {
			return false
		}
	}
	return true
}

// IsDraw reports whether this conclusion is any flavor of draw.
func (c Conclusion) IsDraw() bool {
	return strings.HasPrefix(string(c), "draw ")
}
