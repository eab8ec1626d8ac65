package fighter

import "time"

type Profile struct {
	UserID         string
	WeightDivision float64
	WeightRange    float64
	HeightCm       int
	Gym            string
	UpdatedAt      time.Time
}

// SportRecord is the per-sport win/loss/draw tally for one fighter.
// Historical matches are aggregated into these counters before being
// written; individual match rows are not stored.
type SportRecord struct {
	UserID    string
	Sport     string
	Wins      int
	Losses    int
	Draws     int
	UpdatedAt time.Time
}

// Match result values accepted from clients.
const (
	ResultWon  = "Won"
	ResultLost = "Lost"
	ResultDraw = "Draw"
)
