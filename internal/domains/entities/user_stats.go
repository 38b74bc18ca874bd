package entities

// UserStats is the per-user counters document. Rating starts at 1200 for
// users with no stored record.
type UserStats struct {
	UserId string `dynamodbav:"UserId"`
	Rating int    `dynamodbav:"Rating"`
	Wins   int    `dynamodbav:"Wins"`
	Losses int    `dynamodbav:"Losses"`
	Draws  int    `dynamodbav:"Draws"`
}

// StatsDelta is applied atomically to a user's counters at settlement.
type StatsDelta struct {
	Wins   int
	Losses int
	Draws  int
	Rating int
}
