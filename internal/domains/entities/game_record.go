package entities

import "time"

// MoveRecord is one applied move. Records are append-only: once written to
// a game's move list they are never mutated or removed.
type MoveRecord struct {
	From      string    `dynamodbav:"From" json:"from"`
	To        string    `dynamodbav:"To" json:"to"`
	Promotion string    `dynamodbav:"Promotion,omitempty" json:"promotion,omitempty"`
	San       string    `dynamodbav:"San" json:"san"`
	PlayedAt  time.Time `dynamodbav:"PlayedAt" json:"playedAt"`
}

// GameRecord is the persisted history of a finished game.
type GameRecord struct {
	GameId        string       `dynamodbav:"GameId"`
	WhiteId       string       `dynamodbav:"WhiteId"`
	WhiteUsername string       `dynamodbav:"WhiteUsername"`
	WhiteRating   int          `dynamodbav:"WhiteRating"`
	BlackId       string       `dynamodbav:"BlackId"`
	BlackUsername string       `dynamodbav:"BlackUsername"`
	BlackRating   int          `dynamodbav:"BlackRating"`
	Winner        string       `dynamodbav:"Winner"` // "white", "black" or "draw"
	EndReason     string       `dynamodbav:"EndReason"`
	Moves         []MoveRecord `dynamodbav:"Moves"`
	StartedAt     time.Time    `dynamodbav:"StartedAt"`
	EndedAt       time.Time    `dynamodbav:"EndedAt"`
}
