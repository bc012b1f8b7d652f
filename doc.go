// Package chessd holds the types shared by every part of the game
// session coordinator: player identity, seat color, time controls,
// conclusions and draw-offer state, and the package-level loggers used
// throughout the server.
//
// Subpackages build on these types: clock parses time-control strings
// into a TimeControl, icn encodes/decodes completed games for archival,
// timer schedules cancellable one-shot callbacks, and session holds the
// actual game state machine and manager.
package chessd
