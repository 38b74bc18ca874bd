package server

import (
	"fmt"
	"sync"
	"time"

	"github.com/gambit-gg/gambit/internal/domains/entities"
	"github.com/gambit-gg/gambit/internal/rules"
	"github.com/google/uuid"
)

type GameStatus uint8

const (
	InProgress GameStatus = iota
	Completed
)

// GameSession is one in-progress game. The store is the sole owner of its
// position and move log; all mutation goes through ApplyMove or the
// session's complete transition, serialized by the session mutex.
type GameSession struct {
	Id        string
	White     Identity
	Black     Identity
	StartedAt time.Time

	game   *rules.Game
	moves  []entities.MoveRecord
	status GameStatus

	mu sync.Mutex
}

// sideOf returns the color the user plays in this session.
func (s *GameSession) sideOf(userId string) (rules.Color, bool) {
	switch userId {
	case s.White.UserId:
		return rules.White, true
	case s.Black.UserId:
		return rules.Black, true
	}
	return "", false
}

// Opponent returns the other participant's identity.
func (s *GameSession) Opponent(userId string) (Identity, bool) {
	switch userId {
	case s.White.UserId:
		return s.Black, true
	case s.Black.UserId:
		return s.White, true
	}
	return Identity{}, false
}

func (s *GameSession) FEN() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.game.FEN()
}

func (s *GameSession) MoveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.moves)
}

// Moves returns a copy of the move log.
func (s *GameSession) Moves() []entities.MoveRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	moves := make([]entities.MoveRecord, len(s.moves))
	copy(moves, s.moves)
	return moves
}

// resign records the side's resignation with the engine and returns the
// winning color it decides.
func (s *GameSession) resign(side rules.Color) rules.Color {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.game.Resign(side)
	if winner, ok := s.game.Winner(); ok {
		return winner
	}
	return side.Opposite()
}

// complete transitions the session to Completed and reports whether this
// call made the transition. Exactly one caller wins, which makes
// settlement run at most once per game even when a terminal move and a
// disconnect race.
func (s *GameSession) complete() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == Completed {
		return false
	}
	s.status = Completed
	return true
}

// MoveOutcome is returned to the coordinator for broadcast after a move
// was accepted.
type MoveOutcome struct {
	Record entities.MoveRecord
	Fen    string
	Flags  rules.Flags
	Turn   rules.Color
}

// SessionStore holds all in-progress games keyed by game id.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*GameSession
	now      func() time.Time
}

func NewSessionStore(now func() time.Time) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]*GameSession),
		now:      now,
	}
}

// Create inserts a new InProgress session at the initial position with an
// empty move log.
func (st *SessionStore) Create(white, black Identity) *GameSession {
	session := &GameSession{
		Id:        uuid.NewString(),
		White:     white,
		Black:     black,
		StartedAt: st.now(),
		game:      rules.NewGame(),
		status:    InProgress,
	}

	st.mu.Lock()
	st.sessions[session.Id] = session
	st.mu.Unlock()
	return session
}

func (st *SessionStore) Get(gameId string) (*GameSession, bool) {
	st.mu.Lock()
	defer st.mu.Unlock()
	session, ok := st.sessions[gameId]
	return session, ok
}

func (st *SessionStore) Remove(gameId string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, gameId)
}

// FindByParticipant returns every session the user plays in. The pairing
// invariant keeps this at most one, but disconnect handling iterates
// rather than assuming.
func (st *SessionStore) FindByParticipant(userId string) []*GameSession {
	st.mu.Lock()
	defer st.mu.Unlock()
	var found []*GameSession
	for _, session := range st.sessions {
		if _, ok := session.sideOf(userId); ok {
			found = append(found, session)
		}
	}
	return found
}

// ApplyMove is the core mutation entry point: turn arbitration, engine
// delegation, move-log append. Terminal handling is left to the caller.
func (st *SessionStore) ApplyMove(
	gameId string,
	userId string,
	mv rules.Move,
) (MoveOutcome, error) {
	session, ok := st.Get(gameId)
	if !ok {
		return MoveOutcome{}, ErrNoSuchGame
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	// A session mid-settlement is invisible: a racing late move must find
	// NoSuchGame rather than a half-settled game.
	if session.status != InProgress {
		return MoveOutcome{}, ErrNoSuchGame
	}

	side, ok := session.sideOf(userId)
	if !ok || side != session.game.Turn() {
		return MoveOutcome{}, ErrNotYourTurn
	}

	san, err := session.game.Apply(mv)
	if err != nil {
		return MoveOutcome{}, fmt.Errorf("%w: %s", ErrIllegalMove, mv.UCI())
	}

	record := entities.MoveRecord{
		From:      mv.From,
		To:        mv.To,
		Promotion: mv.Promotion,
		San:       san,
		PlayedAt:  st.now(),
	}
	session.moves = append(session.moves, record)

	return MoveOutcome{
		Record: record,
		Fen:    session.game.FEN(),
		Flags:  session.game.Flags(),
		Turn:   session.game.Turn(),
	}, nil
}
