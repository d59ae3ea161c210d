package game

// EventKind names something the presentation side may want to react to.
type EventKind int

const (
	EventPieceSpawned EventKind = iota
	EventPieceMoved
	EventPieceRotated
	EventPieceLocked
	EventRowsCleared
	EventSpeedChanged
	EventTopScoreBeaten
	EventGameOver
)

var eventNames = map[EventKind]string{
	EventPieceSpawned:   "piece_spawned",
	EventPieceMoved:     "piece_moved",
	EventPieceRotated:   "piece_rotated",
	EventPieceLocked:    "piece_locked",
	EventRowsCleared:    "rows_cleared",
	EventSpeedChanged:   "speed_changed",
	EventTopScoreBeaten: "top_score_beaten",
	EventGameOver:       "game_over",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// Event is a notification emitted by a Round. Only the fields relevant to the
// kind are set.
type Event struct {
	Kind EventKind

	// EventPieceSpawned, EventPieceLocked
	Piece Kind
	// EventPieceLocked
	Cells [4]Cell
	// EventRowsCleared: full rows in ascending order and the cells they freed.
	Rows  []int
	Freed []Cell
	// EventSpeedChanged
	Speed int
	// EventTopScoreBeaten, EventGameOver
	Score int
	// EventGameOver: the grid as it was when the spawn failed, for the
	// fill-then-clear cue.
	Grid []int
}
