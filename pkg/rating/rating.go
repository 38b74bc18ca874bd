package rating

import "math"

// K-factor applied to every game regardless of rating or game count.
const K = 32

const (
	Win  = 1.0
	Draw = 0.5
	Loss = 0.0
)

// ExpectedScore returns the probability of the first player scoring
// against the second under the logistic ELO model.
func ExpectedScore(rating, opponent int) float64 {
	return 1 / (1 + math.Pow(10, float64(opponent-rating)/400))
}

// Delta computes the rating adjustment for a player who scored `score`
// (1 win, 0.5 draw, 0 loss) against the given opponent rating.
func Delta(rating, opponent int, score float64) int {
	return int(math.Round(K * (score - ExpectedScore(rating, opponent))))
}

// Deltas computes both sides' adjustments for a finished game.
// whiteScore is white's result; black's is the complement.
func Deltas(white, black int, whiteScore float64) (int, int) {
	return Delta(white, black, whiteScore), Delta(black, white, 1-whiteScore)
}
