package server

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/gambit-gg/gambit/internal/domains/entities"
)

// fakeConn records everything written to it.
type fakeConn struct {
	mu     sync.Mutex
	events []event
	closed bool
}

func (f *fakeConn) WriteJSON(v interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, v.(event))
	return nil
}

func (f *fakeConn) WriteControl(messageType int, data []byte, deadline time.Time) error {
	return nil
}

func (f *fakeConn) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	return nil
}

func (f *fakeConn) isClosed() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.closed
}

func (f *fakeConn) eventsOfType(eventType string) []event {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []event
	for _, e := range f.events {
		if e.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeConn) lastOfType(eventType string) (event, bool) {
	events := f.eventsOfType(eventType)
	if len(events) == 0 {
		return event{}, false
	}
	return events[len(events)-1], true
}

// fakeGateway records settlement writes in memory.
type fakeGateway struct {
	mu      sync.Mutex
	records []entities.GameRecord
	deltas  map[string][]entities.StatsDelta
	ratings map[string]int

	appendErr error
	statsErr  error
}

func newFakeGateway() *fakeGateway {
	return &fakeGateway{
		deltas:  make(map[string][]entities.StatsDelta),
		ratings: make(map[string]int),
	}
}

func (g *fakeGateway) AppendGameRecord(ctx context.Context, record entities.GameRecord) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.appendErr != nil {
		return g.appendErr
	}
	g.records = append(g.records, record)
	return nil
}

func (g *fakeGateway) IncrementUserStats(ctx context.Context, userId string, delta entities.StatsDelta) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.statsErr != nil {
		return g.statsErr
	}
	g.deltas[userId] = append(g.deltas[userId], delta)
	return nil
}

func (g *fakeGateway) GetUserRating(ctx context.Context, userId string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if rating, ok := g.ratings[userId]; ok {
		return rating, nil
	}
	return 0, errors.New("no stored rating")
}

func (g *fakeGateway) recordCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.records)
}

func (g *fakeGateway) deltaCount() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, d := range g.deltas {
		n += len(d)
	}
	return n
}

func (g *fakeGateway) lastRecord() (entities.GameRecord, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if len(g.records) == 0 {
		return entities.GameRecord{}, false
	}
	return g.records[len(g.records)-1], true
}

func (g *fakeGateway) deltasFor(userId string) []entities.StatsDelta {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.deltas[userId]
}

func testClock() func() time.Time {
	var mu sync.Mutex
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		now = now.Add(time.Second)
		return now
	}
}

func newTestCoordinator(t *testing.T) (*Coordinator, *fakeGateway) {
	t.Helper()
	gateway := newFakeGateway()
	return NewCoordinator(gateway, testClock()), gateway
}

func connect(co *Coordinator, userId, username string, rating int) (*Client, *fakeConn) {
	conn := &fakeConn{}
	client := co.Connect(conn, Identity{
		UserId:   userId,
		Username: username,
		Rating:   rating,
	})
	return client, conn
}

// joinedPair joins two users and returns them ordered white (the arrival
// that completed the pair) then black (the waiter), plus the game id.
func joinedPair(t *testing.T, co *Coordinator) (white, black *Client, whiteConn, blackConn *fakeConn, gameId string) {
	t.Helper()
	black, blackConn = connect(co, "black-user", "blacky", 1200)
	white, whiteConn = connect(co, "white-user", "whitey", 1200)
	co.HandleJoin(black)
	co.HandleJoin(white)

	start, ok := whiteConn.lastOfType(evtGameStart)
	if !ok {
		t.Fatal("expected gameStart after pairing")
	}
	gameId = start.Data.(gameStartEvent).GameId
	return white, black, whiteConn, blackConn, gameId
}

func makeMove(co *Coordinator, c *Client, gameId, from, to string) {
	co.HandleMove(c, makeMoveRequest{
		GameId: gameId,
		Move:   moveData{From: from, To: to},
	})
}
