package server

import (
	"encoding/json"
	"time"
)

// Inbound message envelope.
type payload struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// Client -> server message types.
const (
	msgJoinGame = "joinGame"
	msgMakeMove = "makeMove"
	msgChat     = "chat"
	msgResign   = "resign"
)

// Server -> client event types.
const (
	evtWaiting              = "waiting"
	evtGameStart            = "gameStart"
	evtMoveMade             = "moveMade"
	evtMoveError            = "moveError"
	evtChatMessage          = "chatMessage"
	evtOpponentDisconnected = "opponentDisconnected"
	evtGameOver             = "gameOver"
)

// Outbound message envelope.
type event struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type moveData struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

type makeMoveRequest struct {
	GameId string   `json:"gameId"`
	Move   moveData `json:"move"`
}

type chatRequest struct {
	GameId  string `json:"gameId"`
	Message string `json:"message"`
}

type resignRequest struct {
	GameId string `json:"gameId"`
}

type opponentInfo struct {
	Username string `json:"username"`
	Elo      int    `json:"elo"`
}

type gameStartEvent struct {
	GameId   string       `json:"gameId"`
	Color    string       `json:"color"`
	Opponent opponentInfo `json:"opponent"`
	Fen      string       `json:"fen"`
}

type lastMoveData struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type moveMadeEvent struct {
	Move        string       `json:"move"`
	Fen         string       `json:"fen"`
	LastMove    lastMoveData `json:"lastMove"`
	IsCheck     bool         `json:"isCheck"`
	IsCheckmate bool         `json:"isCheckmate"`
	IsStalemate bool         `json:"isStalemate"`
	IsDraw      bool         `json:"isDraw"`
	IsGameOver  bool         `json:"isGameOver"`
	Turn        string       `json:"turn"`
}

type moveErrorEvent struct {
	Message string `json:"message"`
}

type chatMessageEvent struct {
	Username  string    `json:"username"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	UserId    string    `json:"userId"`
}

type opponentDisconnectedEvent struct {
	Username string `json:"username"`
	GameId   string `json:"gameId"`
}

type gameOverEvent struct {
	GameId string `json:"gameId"`
	Winner string `json:"winner"` // "white", "black" or "draw"
	Reason string `json:"reason"`
}
