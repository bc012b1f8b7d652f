package icn_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-chessd"
	"go-chessd/icn"
)

func TestCoordRoundTrip(t *testing.T) {
	for _, c := range []icn.Coord{{X: 0, Y: 0}, {X: -3, Y: 12}, {X: 99, Y: -99}} {
		got, err := icn.ParseCoord(c.String())
		require.NoError(t, err)
		assert.Equal(t, c, got)
	}
}

func TestParseCoordRejectsGarbage(t *testing.T) {
	for _, s := range []string{"", "1", "1,2,3", "x,2", "1,y"} {
		_, err := icn.ParseCoord(s)
		assert.Error(t, err, s)
	}
}

func TestPositionRoundTrip(t *testing.T) {
	pieces := []icn.PlacedPiece{
		{At: icn.Coord{X: 0, Y: 0}, Piece: "rook", Color: chessd.White, Special: true},
		{At: icn.Coord{X: 4, Y: 0}, Piece: "king", Color: chessd.White},
		{At: icn.Coord{X: 3, Y: 7}, Piece: "queen", Color: chessd.Black},
		{At: icn.Coord{X: 1, Y: 1}, Piece: "archbishop", Color: chessd.White},
	}

	encoded, err := icn.EncodePosition(pieces)
	require.NoError(t, err)

	decoded, err := icn.DecodePosition(encoded)
	require.NoError(t, err)
	assert.ElementsMatch(t, pieces, decoded)
}

func TestEncodePositionUnknownPiece(t *testing.T) {
	_, err := icn.EncodePosition([]icn.PlacedPiece{{Piece: "dragon"}})
	assert.Error(t, err)
}

func TestDecodePositionRejectsUnbalancedGroups(t *testing.T) {
	_, err := icn.DecodePosition("K0,0|{unterminated")
	assert.Error(t, err)
}

func TestMoveRoundTrip(t *testing.T) {
	m := icn.Move{From: icn.Coord{X: 4, Y: 1}, To: icn.Coord{X: 4, Y: 3}}
	encoded, err := icn.EncodeMove(m)
	require.NoError(t, err)
	assert.Equal(t, "4,1>4,3", encoded)

	decoded, err := icn.DecodeMove(encoded)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

func TestMoveRoundTripWithPromotion(t *testing.T) {
	m := icn.Move{From: icn.Coord{X: 0, Y: 6}, To: icn.Coord{X: 0, Y: 7}, Promotion: "queen"}
	encoded, err := icn.EncodeMove(m)
	require.NoError(t, err)
	assert.Equal(t, "0,6>0,7=Q", encoded)

	decoded, err := icn.DecodeMove(encoded)
	require.NoError(t, err)
	assert.Equal(t, m, decoded)
}

func TestDecodeMoveBarePromotion(t *testing.T) {
	decoded, err := icn.DecodeMove("0,6>0,7Q")
	require.NoError(t, err)
	assert.Equal(t, icn.Move{From: icn.Coord{X: 0, Y: 6}, To: icn.Coord{X: 0, Y: 7}, Promotion: "queen"}, decoded)
}

func TestDecodeMoveRejectsMalformed(t *testing.T) {
	for _, s := range []string{"", "0,0", "0,0>", "0,0>1,1=dragon", "a,b>1,1"} {
		_, err := icn.DecodeMove(s)
		assert.Error(t, err, s)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	ep := icn.Coord{X: 3, Y: 5}
	r := icn.Record{
		Headers: []icn.HeaderField{
			{Key: "Variant", Value: "Standard"},
			{Key: "TimeControl", Value: "600+4"},
		},
		Turn:           chessd.Black,
		EnPassant:      &ep,
		MoveRuleCount:  2,
		MoveRuleLimit:  100,
		FullMove:       12,
		PromotionRanks: "0,7",
		WinConditions:  "checkmate",
		Position: []icn.PlacedPiece{
			{At: icn.Coord{X: 4, Y: 0}, Piece: "king", Color: chessd.White},
			{At: icn.Coord{X: 4, Y: 7}, Piece: "king", Color: chessd.Black},
		},
		Moves: []icn.Move{
			{From: icn.Coord{X: 4, Y: 1}, To: icn.Coord{X: 4, Y: 3}},
			{From: icn.Coord{X: 4, Y: 6}, To: icn.Coord{X: 4, Y: 4}},
		},
	}

	text, err := icn.Serialize(r)
	require.NoError(t, err)

	got, err := icn.Parse(text)
	require.NoError(t, err)

	assert.Equal(t, r.Headers, got.Headers)
	assert.Equal(t, r.Turn, got.Turn)
	require.NotNil(t, got.EnPassant)
	assert.Equal(t, *r.EnPassant, *got.EnPassant)
	assert.Equal(t, r.MoveRuleCount, got.MoveRuleCount)
	assert.Equal(t, r.MoveRuleLimit, got.MoveRuleLimit)
	assert.Equal(t, r.FullMove, got.FullMove)
	assert.Equal(t, r.PromotionRanks, got.PromotionRanks)
	assert.Equal(t, r.WinConditions, got.WinConditions)
	assert.ElementsMatch(t, r.Position, got.Position)
	assert.Equal(t, r.Moves, got.Moves)

	assert.Contains(t, text, "[Variant: Standard]\n")
	assert.Contains(t, text, "[TimeControl: 600+4]\n\n")
}

func TestRecordRoundTripNoEnPassantNoMetadata(t *testing.T) {
	r := icn.Record{
		Turn:          chessd.White,
		MoveRuleCount: 0,
		MoveRuleLimit: 100,
		FullMove:      1,
		Position: []icn.PlacedPiece{
			{At: icn.Coord{X: 4, Y: 0}, Piece: "king", Color: chessd.White},
		},
	}

	text, err := icn.Serialize(r)
	require.NoError(t, err)

	got, err := icn.Parse(text)
	require.NoError(t, err)
	assert.Nil(t, got.EnPassant)
	assert.Empty(t, got.Moves)
}
