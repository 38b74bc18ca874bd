// Package rules wraps the chess rules engine behind the small surface the
// game server needs: apply a candidate move, read the position, and query
// terminal flags. No chess logic lives outside this package.
package rules

import (
	"errors"

	"github.com/notnil/chess"
)

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// ErrIllegalMove covers every engine rejection: malformed squares, wrong
// piece, moving into check. Callers treat all of them the same way.
var ErrIllegalMove = errors.New("illegal move")

// Move is a candidate move as submitted by a client.
type Move struct {
	From      string
	To        string
	Promotion string
}

// UCI returns the move in UCI notation, e.g. "e2e4" or "a7a8q".
func (m Move) UCI() string {
	return m.From + m.To + m.Promotion
}

// Flags describes the position after a move was applied.
type Flags struct {
	Check     bool
	Checkmate bool
	Stalemate bool
	Draw      bool
	GameOver  bool
}

type Game struct {
	inner *chess.Game
}

func NewGame() *Game {
	return &Game{inner: chess.NewGame(chess.UseNotation(chess.UCINotation{}))}
}

func FromFEN(fen string) (*Game, error) {
	withFen, err := chess.FEN(fen)
	if err != nil {
		return nil, err
	}
	return &Game{inner: chess.NewGame(withFen, chess.UseNotation(chess.UCINotation{}))}, nil
}

func (g *Game) FEN() string {
	return g.inner.FEN()
}

// Turn returns the side to move.
func (g *Game) Turn() Color {
	if g.inner.Position().Turn() == chess.White {
		return White
	}
	return Black
}

// Apply validates the move against the current position and applies it,
// returning the move's algebraic notation. The position is unchanged on
// rejection.
func (g *Game) Apply(m Move) (string, error) {
	uci := m.UCI()
	if !validUCISyntax(uci) {
		return "", ErrIllegalMove
	}
	pos := g.inner.Position()
	decoded, err := chess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		return "", ErrIllegalMove
	}
	if err := g.inner.Move(decoded); err != nil {
		return "", ErrIllegalMove
	}
	played := g.inner.Moves()
	san := chess.AlgebraicNotation{}.Encode(pos, played[len(played)-1])
	return san, nil
}

// Resign ends the game with a win for the opposite side.
func (g *Game) Resign(c Color) {
	if c == White {
		g.inner.Resign(chess.White)
	} else {
		g.inner.Resign(chess.Black)
	}
}

func (g *Game) Flags() Flags {
	var f Flags
	outcome := g.inner.Outcome()
	method := g.inner.Method()
	f.GameOver = outcome != chess.NoOutcome
	f.Checkmate = method == chess.Checkmate
	f.Stalemate = method == chess.Stalemate
	f.Draw = outcome == chess.Draw
	if moves := g.inner.Moves(); len(moves) > 0 {
		f.Check = moves[len(moves)-1].HasTag(chess.Check)
	}
	return f
}

// Winner reports the winning side of a decided game, if any.
func (g *Game) Winner() (Color, bool) {
	switch g.inner.Outcome() {
	case chess.WhiteWon:
		return White, true
	case chess.BlackWon:
		return Black, true
	}
	return "", false
}

// validUCISyntax checks [a-h][1-8][a-h][1-8] with an optional promotion
// piece [qrbn] before handing the string to the engine.
func validUCISyntax(s string) bool {
	if len(s) < 4 || len(s) > 5 {
		return false
	}
	if s[0] < 'a' || s[0] > 'h' || s[2] < 'a' || s[2] > 'h' {
		return false
	}
	if s[1] < '1' || s[1] > '8' || s[3] < '1' || s[3] > '8' {
		return false
	}
	if len(s) == 5 {
		switch s[4] {
		case 'q', 'r', 'b', 'n':
		default:
			return false
		}
	}
	return true
}
