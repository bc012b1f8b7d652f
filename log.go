package chessd

import "github.com/sirupsen/logrus"

// Debug carries ordinary operational detail: game creation, moves
// accepted, timers armed and cancelled.
var Debug = logrus.StandardLogger()

// Hack is written to whenever a client does something the protocol
// forbids: wrong move number, claiming a conclusion it didn't earn,
// reporting itself, resigning a finished game. Kept distinct from Debug
// so a deployment can alert on it separately.
var Hack = logrus.New()

func init() {
	Hack.SetFormatter(&logrus.TextFormatter{DisableColors: true})
}
