package game

import "math"

const (
	MinSpeed = 1
	MaxSpeed = 6
)

var speedScoreFactor = map[int]float64{
	1: 1.0,
	2: 1.5,
	3: 2.0,
	4: 3.0,
	5: 4.5,
	6: 6.0,
}

// clearsSpeedLadder maps a cumulative clear count to the speed it unlocks.
var clearsSpeedLadder = map[int]int{
	20:  2,
	50:  3,
	100: 4,
	180: 5,
	300: 6,
}

// LedgerSnapshot is the read-only view of a Ledger.
type LedgerSnapshot struct {
	Clears   int `json:"clears"`
	Speed    int `json:"speed"`
	Score    int `json:"score"`
	TopScore int `json:"top_score"`
}

// Ledger tracks clears, speed and score. Speed and top score survive across
// rounds; the other counters are per round.
type Ledger struct {
	clears        int
	speed         int
	rowClearScore int
	score         int
	topScore      int

	roundTop int  // top score when the round started
	beaten   bool // score passed roundTop during this round
}

func NewLedger() *Ledger {
	return &Ledger{speed: MinSpeed}
}

// NewRound resets the per-round counters.
func (l *Ledger) NewRound() {
	l.clears = 0
	l.rowClearScore = 0
	l.score = 0
	l.roundTop = l.topScore
	l.beaten = false
}

// ClearOneRow accounts for a single cleared row and reports whether the speed
// went up as a result.
func (l *Ledger) ClearOneRow() (speedIncreased bool) {
	l.clears++
	factor, ok := speedScoreFactor[l.speed]
	if !ok {
		factor = 1
	}
	l.rowClearScore = 2*l.rowClearScore + int(math.Round(10*factor))
	l.score += l.rowClearScore
	if l.score > l.topScore {
		l.topScore = l.score
	}

	if l.speed >= MaxSpeed {
		return false
	}
	if next, ok := clearsSpeedLadder[l.clears]; ok && next > l.speed {
		l.speed = next
		return true
	}
	return false
}

// BreakCombo is called when a piece locks without clearing anything.
func (l *Ledger) BreakCombo() {
	l.rowClearScore = 0
}

// ChangeSpeed cycles the speed 1..MaxSpeed and back to 1.
func (l *Ledger) ChangeSpeed() int {
	l.speed++
	if l.speed > MaxSpeed {
		l.speed = MinSpeed
	}
	return l.speed
}

// NewHigh reports, once per round, that the score just passed the top score
// the round started with.
func (l *Ledger) NewHigh() bool {
	if l.beaten || l.score <= l.roundTop {
		return false
	}
	l.beaten = true
	return true
}

func (l *Ledger) Clears() int        { return l.clears }
func (l *Ledger) Speed() int         { return l.speed }
func (l *Ledger) Score() int         { return l.score }
func (l *Ledger) RowClearScore() int { return l.rowClearScore }
func (l *Ledger) TopScore() int      { return l.topScore }

// SetTopScore installs a persisted top score. Negative values are treated as
// missing.
func (l *Ledger) SetTopScore(score int) {
	if score < 0 {
		score = 0
	}
	l.topScore = score
	if l.score > l.topScore {
		l.topScore = l.score
	}
	l.roundTop = l.topScore
}

func (l *Ledger) Snapshot() LedgerSnapshot {
	return LedgerSnapshot{
		Clears:   l.clears,
		Speed:    l.speed,
		Score:    l.score,
		TopScore: l.topScore,
	}
}
