package postgres

import "time"

type fighterProfileTableModel struct {
	UserID         string    `db:"user_id"`
	WeightDivision float64   `db:"weight_division"`
	WeightRange    float64   `db:"weight_range"`
	HeightCm       int       `db:"height_cm"`
	Gym            string    `db:"gym"`
	UpdatedAt      time.Time `db:"updated_at"`
}

type fighterProfileInsertModel struct {
	UserID         string  `db:"user_id"`
	WeightDivision float64 `db:"weight_division"`
	WeightRange    float64 `db:"weight_range"`
	HeightCm       int     `db:"height_cm"`
	Gym            string  `db:"gym"`
}

type sportRecordTableModel struct {
	UserID    string    `db:"user_id"`
	Sport     string    `db:"sport"`
	Wins      int       `db:"wins"`
	Losses    int       `db:"losses"`
	Draws     int       `db:"draws"`
	UpdatedAt time.Time `db:"updated_at"`
}

type sportRecordInsertModel struct {
	UserID string `db:"user_id"`
	Sport  string `db:"sport"`
	Wins   int    `db:"wins"`
	Losses int    `db:"losses"`
	Draws  int    `db:"draws"`
}
