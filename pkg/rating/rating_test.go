package rating

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeltaEqualRatings(t *testing.T) {
	assert.Equal(t, 16, Delta(1200, 1200, Win))
	assert.Equal(t, -16, Delta(1200, 1200, Loss))
	assert.Equal(t, 0, Delta(1200, 1200, Draw))
}

func TestDeltasDecisive(t *testing.T) {
	w, b := Deltas(1200, 1200, Win)
	assert.Equal(t, 16, w)
	assert.Equal(t, -16, b)
}

func TestDeltasDraw(t *testing.T) {
	w, b := Deltas(1200, 1200, Draw)
	assert.Equal(t, 0, w)
	assert.Equal(t, 0, b)

	// Underdog gains on a draw against a stronger opponent.
	w, b = Deltas(1000, 1400, Draw)
	assert.Positive(t, w)
	assert.Negative(t, b)
	assert.Equal(t, -w, b)
}

func TestExpectedScoreSymmetry(t *testing.T) {
	e1 := ExpectedScore(1500, 1300)
	e2 := ExpectedScore(1300, 1500)
	assert.InDelta(t, 1.0, e1+e2, 1e-9)
	assert.Greater(t, e1, 0.5)
}

func TestDeltaFavoriteWinsLittle(t *testing.T) {
	// A much stronger player gains almost nothing from the expected win.
	d := Delta(2000, 1200, Win)
	assert.GreaterOrEqual(t, d, 0)
	assert.Less(t, d, 2)
}
