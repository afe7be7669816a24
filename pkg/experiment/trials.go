package experiment

import (
	"context"
	"fmt"
	"math"

	"github.com/boristopalov/montyhall/pkg/core"
)

// RunTrials plays n independent games and returns the results in completion
// order. The first failing game stops the batch; results played so far are
// returned with the error.
func RunTrials(ctx context.Context, env core.Environment, a core.Agent, n int) ([]core.Result, error) {
	return runTrials(ctx, env, a, n, nil)
}

func runTrials(ctx context.Context, env core.Environment, a core.Agent, n int, onResult func(trial int, r core.Result)) ([]core.Result, error) {
	if n < 1 {
		return nil, core.InvalidArgument(fmt.Sprintf("trial count must be at least 1, got %d", n))
	}
	results := make([]core.Result, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		r, err := RunEpisode(ctx, env, a)
		if err != nil {
			return results, fmt.Errorf("trial %d: %w", i+1, err)
		}
		results = append(results, r)
		if onResult != nil {
			onResult(i+1, r)
		}
	}
	return results, nil
}

// WinRate is the fraction of won games.
func WinRate(results []core.Result) (float64, error) {
	if len(results) == 0 {
		return 0, core.InvalidArgument("cannot compute win rate of zero results")
	}
	return float64(countWins(results)) / float64(len(results)), nil
}

func countWins(results []core.Result) int {
	wins := 0
	for _, r := range results {
		if r.Won {
			wins++
		}
	}
	return wins
}

// Summary aggregates the games one agent played.
type Summary struct {
	Agent     string
	Trials    int
	Wins      int
	WinRate   float64 // 0..1
	MeanScore float64
	CILow     float64 // Wilson 95% interval on WinRate
	CIHigh    float64
}

// Summarize builds the statistics for one agent's batch.
func Summarize(agentName string, results []core.Result) (Summary, error) {
	rate, err := WinRate(results)
	if err != nil {
		return Summary{}, err
	}
	total := 0
	for _, r := range results {
		total += r.Score
	}
	wins := countWins(results)
	low, hi := WilsonCI95(wins, len(results))
	return Summary{
		Agent:     agentName,
		Trials:    len(results),
		Wins:      wins,
		WinRate:   rate,
		MeanScore: float64(total) / float64(len(results)),
		CILow:     low,
		CIHigh:    hi,
	}, nil
}

// WilsonCI95 for a Bernoulli win rate.
func WilsonCI95(wins, total int) (low, hi float64) {
	if total <= 0 {
		return 0, 1
	}
	z := 1.96
	n := float64(total)
	p := float64(wins) / n
	den := 1 + (z*z)/n
	center := p + (z*z)/(2*n)
	half := z * math.Sqrt((p*(1-p))/n+(z*z)/(4*n*n))
	return (center - half) / den, (center + half) / den
}
