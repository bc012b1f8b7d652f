package session

import (
	"github.com/sirupsen/logrus"

	"go-chessd"
)

// protoLog carries ordinary diagnostics that are not suspected hacks:
// an action from an unsubscribed endpoint, a malformed payload, an
// unknown action.
var protoLog = chessd.Debug.WithField("component", "session")

// hackLog is written to for anything that looks like a deliberate
// protocol violation rather than an ordinary race (wrong move number,
// invalid move format, self-report, reporting in a private game,
// claiming a conclusion you didn't earn, resigning a concluded game).
var hackLog = logrus.NewEntry(chessd.Hack)
