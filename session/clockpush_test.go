package session_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chessd"
	"go-chessd/session"
)

func lastClockPayload(t *testing.T, ep *fakeEndpoint) map[chessd.Color]int64 {
	t.Helper()
	ep.mu.Lock()
	defer ep.mu.Unlock()
	for i := len(ep.sent) - 1; i >= 0; i-- {
		if ep.sent[i].action == "clock" {
			clk, ok := ep.sent[i].payload.(map[chessd.Color]int64)
			require.True(t, ok, "clock payload has unexpected type")
			return clk
		}
	}
	require.Fail(t, "no clock message sent")
	return nil
}

// Moves 1 and 2 never advance or charge either side's clock; the
// first charge (and the first credited increment) lands on move 3.
func TestPushClockFirstTwoPliesAreFree(t *testing.T) {
	m := session.NewManager(testConfig(), nil, nil)
	white, black, _ := createTestGame(t, m, "10+1")
	const initialMs = int64(10_000)
	const incrementMs = int64(1_000)

	m.SubmitMove(white, session.SubmitMoveRequest{Move: "5,2>5,4", MoveNumber: 1})
	assert.Equal(t, initialMs, lastClockPayload(t, white)[chessd.White])

	m.SubmitMove(black, session.SubmitMoveRequest{Move: "5,7>5,5", MoveNumber: 2})
	assert.Equal(t, initialMs, lastClockPayload(t, black)[chessd.Black])

	m.SubmitMove(white, session.SubmitMoveRequest{Move: "6,2>6,4", MoveNumber: 3})
	clk3 := lastClockPayload(t, white)
	assert.GreaterOrEqual(t, clk3[chessd.White], initialMs)
	assert.LessOrEqual(t, clk3[chessd.White], initialMs+incrementMs)
}
