package server

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/gambit-gg/gambit/internal/domains/entities"
	"github.com/gambit-gg/gambit/internal/rules"
	"github.com/gambit-gg/gambit/pkg/logging"
	"github.com/gambit-gg/gambit/pkg/rating"
	"go.uber.org/zap"
)

// End reasons recorded at settlement.
const (
	reasonCheckmate   = "checkmate"
	reasonStalemate   = "stalemate"
	reasonDraw        = "draw"
	reasonResignation = "resignation"
	reasonDisconnect  = "disconnect"
)

const maxChatMessageLen = 200

// PersistenceGateway is the append-only game-record store plus the atomic
// per-user counters, consumed at settlement.
type PersistenceGateway interface {
	AppendGameRecord(ctx context.Context, record entities.GameRecord) error
	IncrementUserStats(ctx context.Context, userId string, delta entities.StatsDelta) error
	GetUserRating(ctx context.Context, userId string) (int, error)
}

// Coordinator owns the lifecycle of every game session end to end: it is
// the only component that pairs players, accepts moves, and runs
// settlement.
type Coordinator struct {
	registry *Registry
	queue    *Queue
	store    *SessionStore
	gateway  PersistenceGateway
	now      func() time.Time
}

func NewCoordinator(gateway PersistenceGateway, now func() time.Time) *Coordinator {
	return &Coordinator{
		registry: NewRegistry(),
		queue:    NewQueue(now),
		store:    NewSessionStore(now),
		gateway:  gateway,
		now:      now,
	}
}

// Connect registers a verified identity as a live connection. The token's
// rating claim may be stale, so the stored rating is preferred when the
// gateway has one; the claim stands otherwise.
func (co *Coordinator) Connect(conn wsConn, identity Identity) *Client {
	if stored, err := co.gateway.GetUserRating(context.Background(), identity.UserId); err == nil {
		identity.Rating = stored
	}
	client := newClient(conn, identity)
	co.registry.Bind(client)
	return client
}

// HandleJoin runs matchmaking for the client. The arrival that completes
// a pair plays White; the waiter plays Black.
func (co *Coordinator) HandleJoin(c *Client) {
	userId := c.identity.UserId
	if len(co.store.FindByParticipant(userId)) > 0 {
		logging.Info("join rejected, user already in a game", zap.String("user_id", userId))
		return
	}

	entry, matched := co.queue.Enqueue(c.identity, c)
	if !matched {
		c.send(evtWaiting, nil)
		logging.Info("user waiting for opponent", zap.String("user_id", userId))
		return
	}

	session := co.store.Create(c.identity, entry.identity)
	fen := session.FEN()
	co.sendTo(session.White.UserId, evtGameStart, gameStartEvent{
		GameId:   session.Id,
		Color:    string(rules.White),
		Opponent: opponentInfo{Username: session.Black.Username, Elo: session.Black.Rating},
		Fen:      fen,
	})
	co.sendTo(session.Black.UserId, evtGameStart, gameStartEvent{
		GameId:   session.Id,
		Color:    string(rules.Black),
		Opponent: opponentInfo{Username: session.White.Username, Elo: session.White.Rating},
		Fen:      fen,
	})
	logging.Info("game started",
		zap.String("game_id", session.Id),
		zap.String("white", session.White.UserId),
		zap.String("black", session.Black.UserId),
	)
}

// HandleMove submits a move. Accepted moves are broadcast to both
// participants; an illegal move is reported to the submitter only;
// out-of-band submissions (unknown game, not the submitter's turn) are
// expected client/server skew and dropped.
func (co *Coordinator) HandleMove(c *Client, req makeMoveRequest) {
	userId := c.identity.UserId
	mv := rules.Move{
		From:      strings.ToLower(strings.TrimSpace(req.Move.From)),
		To:        strings.ToLower(strings.TrimSpace(req.Move.To)),
		Promotion: strings.ToLower(strings.TrimSpace(req.Move.Promotion)),
	}

	session, ok := co.store.Get(req.GameId)
	if !ok {
		logging.Info("move for unknown game dropped",
			zap.String("game_id", req.GameId),
			zap.String("user_id", userId),
		)
		return
	}

	outcome, err := co.store.ApplyMove(req.GameId, userId, mv)
	if errors.Is(err, ErrIllegalMove) {
		c.send(evtMoveError, moveErrorEvent{Message: ErrStatusInvalidMove})
		return
	}
	if err != nil {
		logging.Info("move dropped",
			zap.String("game_id", req.GameId),
			zap.String("user_id", userId),
			zap.Error(err),
		)
		return
	}

	co.broadcast(session, evtMoveMade, moveMadeEvent{
		Move:        outcome.Record.San,
		Fen:         outcome.Fen,
		LastMove:    lastMoveData{From: outcome.Record.From, To: outcome.Record.To},
		IsCheck:     outcome.Flags.Check,
		IsCheckmate: outcome.Flags.Checkmate,
		IsStalemate: outcome.Flags.Stalemate,
		IsDraw:      outcome.Flags.Draw,
		IsGameOver:  outcome.Flags.GameOver,
		Turn:        string(outcome.Turn),
	})

	if !outcome.Flags.GameOver {
		return
	}

	side, _ := session.sideOf(userId)
	var result gameResult
	switch {
	case outcome.Flags.Checkmate:
		result = gameResult{winner: string(side), reason: reasonCheckmate}
	case outcome.Flags.Stalemate:
		result = gameResult{winner: "draw", reason: reasonStalemate}
	default:
		result = gameResult{winner: "draw", reason: reasonDraw}
	}
	co.settle(session, result)
}

// HandleChat relays a chat line to both participants. The sender must be
// a participant of the game; the message is trimmed and capped.
func (co *Coordinator) HandleChat(c *Client, req chatRequest) {
	session, ok := co.store.Get(req.GameId)
	if !ok {
		return
	}
	if _, participant := session.sideOf(c.identity.UserId); !participant {
		logging.Info("chat from non-participant dropped",
			zap.String("game_id", req.GameId),
			zap.String("user_id", c.identity.UserId),
		)
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		return
	}
	// Cap counts characters, not bytes; a byte slice could cut mid-rune.
	if runes := []rune(message); len(runes) > maxChatMessageLen {
		message = string(runes[:maxChatMessageLen])
	}

	co.broadcast(session, evtChatMessage, chatMessageEvent{
		Username:  c.identity.Username,
		Message:   message,
		Timestamp: co.now(),
		UserId:    c.identity.UserId,
	})
}

// HandleResign settles the game with a win for the opponent.
func (co *Coordinator) HandleResign(c *Client, req resignRequest) {
	session, ok := co.store.Get(req.GameId)
	if !ok {
		return
	}
	side, participant := session.sideOf(c.identity.UserId)
	if !participant {
		return
	}
	winner := session.resign(side)
	co.settle(session, gameResult{
		winner: string(winner),
		reason: reasonResignation,
	})
}

// HandleDisconnect runs when a connection's read loop ends. A handle that
// was displaced by a newer connection for the same user is ignored. For a
// live handle: the waiting entry is cancelled, the opponent of every game
// the user is in is notified, and the game is settled as a
// resignation-equivalent loss if at least one move was made. An unplayed
// game is discarded without leaving a trace.
func (co *Coordinator) HandleDisconnect(c *Client) {
	if !co.registry.UnbindIf(c) {
		return
	}
	userId := c.identity.UserId
	co.queue.Cancel(userId)

	for _, session := range co.store.FindByParticipant(userId) {
		opponent, ok := session.Opponent(userId)
		if !ok {
			continue
		}
		co.sendTo(opponent.UserId, evtOpponentDisconnected, opponentDisconnectedEvent{
			Username: c.identity.Username,
			GameId:   session.Id,
		})

		if session.MoveCount() == 0 {
			if session.complete() {
				co.store.Remove(session.Id)
				logging.Info("unplayed game discarded",
					zap.String("game_id", session.Id),
					zap.String("user_id", userId),
				)
			}
			continue
		}

		side, _ := session.sideOf(userId)
		co.settle(session, gameResult{
			winner: string(side.Opposite()),
			reason: reasonDisconnect,
		})
	}
}

type gameResult struct {
	winner string // "white", "black" or "draw"
	reason string
}

// settle is the terminal pipeline: remove the session from play, tell both
// players, persist the record, and apply rating and counter deltas from
// the pre-game snapshots. Persistence failures are logged and do not keep
// the session alive; losing a record beats leaving a zombie game.
func (co *Coordinator) settle(session *GameSession, result gameResult) {
	if !session.complete() {
		return
	}
	co.store.Remove(session.Id)

	co.broadcast(session, evtGameOver, gameOverEvent{
		GameId: session.Id,
		Winner: result.winner,
		Reason: result.reason,
	})

	ctx := context.Background()
	record := entities.GameRecord{
		GameId:        session.Id,
		WhiteId:       session.White.UserId,
		WhiteUsername: session.White.Username,
		WhiteRating:   session.White.Rating,
		BlackId:       session.Black.UserId,
		BlackUsername: session.Black.Username,
		BlackRating:   session.Black.Rating,
		Winner:        result.winner,
		EndReason:     result.reason,
		Moves:         session.Moves(),
		StartedAt:     session.StartedAt,
		EndedAt:       co.now(),
	}
	if err := co.gateway.AppendGameRecord(ctx, record); err != nil {
		logging.Error("failed to append game record",
			zap.String("game_id", session.Id),
			zap.Error(err),
		)
	}

	whiteScore := scoreFor(result.winner)
	whiteDelta, blackDelta := rating.Deltas(session.White.Rating, session.Black.Rating, whiteScore)
	if err := co.gateway.IncrementUserStats(
		ctx, session.White.UserId, statsDeltaFor(whiteScore, whiteDelta),
	); err != nil {
		logging.Error("failed to update white stats",
			zap.String("game_id", session.Id),
			zap.String("user_id", session.White.UserId),
			zap.Error(err),
		)
	}
	if err := co.gateway.IncrementUserStats(
		ctx, session.Black.UserId, statsDeltaFor(1-whiteScore, blackDelta),
	); err != nil {
		logging.Error("failed to update black stats",
			zap.String("game_id", session.Id),
			zap.String("user_id", session.Black.UserId),
			zap.Error(err),
		)
	}

	logging.Info("game settled",
		zap.String("game_id", session.Id),
		zap.String("winner", result.winner),
		zap.String("reason", result.reason),
		zap.Int("white_delta", whiteDelta),
		zap.Int("black_delta", blackDelta),
	)
}

func scoreFor(winner string) float64 {
	switch winner {
	case string(rules.White):
		return rating.Win
	case string(rules.Black):
		return rating.Loss
	default:
		return rating.Draw
	}
}

func statsDeltaFor(score float64, ratingDelta int) entities.StatsDelta {
	delta := entities.StatsDelta{Rating: ratingDelta}
	switch score {
	case rating.Win:
		delta.Wins = 1
	case rating.Loss:
		delta.Losses = 1
	default:
		delta.Draws = 1
	}
	return delta
}

func (co *Coordinator) sendTo(userId string, eventType string, data any) {
	client, ok := co.registry.Lookup(userId)
	if !ok {
		return
	}
	if err := client.send(eventType, data); err != nil {
		logging.Error("couldn't notify player",
			zap.String("user_id", userId),
			zap.String("event", eventType),
		)
	}
}

func (co *Coordinator) broadcast(session *GameSession, eventType string, data any) {
	co.sendTo(session.White.UserId, eventType, data)
	co.sendTo(session.Black.UserId, eventType, data)
}
