package chessd

import "fmt"

// Handle identifies a player: either a signed-in member by stable id,
// or a guest by an opaque browser token. It is the key for "this player
// is seated in a game".
type Handle struct {
	// Kind discriminates Member from Guest. The zero value is Member,
	// so a Handle must always be constructed through MemberHandle or
	// GuestHandle rather than a bare struct literal.
	kind        handleKind
	stableID    int64
	displayName string
	browserTok  string
}

type handleKind uint8

const (
	kindMember handleKind = iota
	kindGuest
)

// MemberHandle identifies a signed-in user by stable id.
func MemberHandle(stableID int64, displayName string) Handle {
	return Handle{kind: kindMember, stableID: stableID, displayName: displayName}
}

// GuestHandle identifies an anonymous player by the opaque token their
// browser was issued.
func GuestHandle(browserToken string) Handle {
	return Handle{kind: kindGuest, browserTok: browserToken}
}

// IsGuest reports whether this handle is a guest, as opposed to a
// signed-in member.
func (h Handle) IsGuest() bool {
	return h.kind == kindGuest
}

// StableID returns the member's stable id. Only meaningful when
// !IsGuest().
func (h Handle) StableID() int64 {
	return h.stableID
}

// BrowserToken returns the guest's opaque token. Only meaningful when
// IsGuest(). Must never be sent to the opposing player (see the safe
// view projection built by session's safeView).
func (h Handle) BrowserToken() string {
	return h.browserTok
}

// DisplayName returns the name to show other players. Guests have no
// display name of their own; callers render a constant placeholder
// instead (session.GuestDisplayName).
func (h Handle) DisplayName() string {
	return h.displayName
}

// Equal reports whether two handles denote the same player: same kind,
// and same inner discriminated value.
func (h Handle) Equal(other Handle) bool {
	if h.kind != other.kind {
		return false
	}
	if h.kind == kindMember {
		return h.stableID == other.stableID
	}
	return h.browserTok == other.browserTok
}

// Key returns a string uniquely identifying this handle, suitable for
// use as a map key in the player-to-game index. Member and guest key
// spaces never collide because they're prefixed distinctly.
func (h Handle) Key() string {
	if h.kind == kindMember {
		return fmt.Sprintf("m:%d", h.stableID)
	}
	return fmt.Sprintf("g:%s", h.browserTok)
}

func (h Handle) String() string {
	if h.kind == kindMember {
		return fmt.Sprintf("member#%d(%s)", h.stableID, h.displayName)
	}
	return fmt.Sprintf("guest(%s)", h.browserTok)
}
