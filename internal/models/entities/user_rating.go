package entities

// UserRating is the aggregate over every rating a user has received.
type UserRating struct {
	Average float64 `db:"average" json:"average"`
	Count   int64   `db:"count" json:"count"`
}
