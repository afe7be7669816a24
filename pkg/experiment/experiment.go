package experiment

import (
	"context"
	"fmt"
	"io"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/boristopalov/montyhall/internal/random"
	"github.com/boristopalov/montyhall/pkg/agent"
	"github.com/boristopalov/montyhall/pkg/config"
	"github.com/boristopalov/montyhall/pkg/core"
	"github.com/boristopalov/montyhall/pkg/environment"
	"github.com/boristopalov/montyhall/pkg/messaging"
	"github.com/boristopalov/montyhall/pkg/telemetry"
)

// MontyHallExperiment plays every configured agent against its own engine for
// the configured number of trials and collects a Report.
type MontyHallExperiment struct {
	cfg       *config.ExperimentConfig
	runID     string
	seed      int64
	seeds     *random.Source
	agentOpts []agent.AgentOption
	broker    messaging.Broker
	mu        sync.RWMutex
	status    core.ExperimentStatus
	report    Report
}

var _ core.Experiment = (*MontyHallExperiment)(nil)

type ExperimentOption func(*MontyHallExperiment)

// WithBroker publishes a TrialOutcome per game and a BatchDone per agent.
func WithBroker(b messaging.Broker) ExperimentOption {
	return func(e *MontyHallExperiment) {
		e.broker = b
	}
}

// WithAgentOptions passes extra options to every agent, e.g. the LLM provider.
func WithAgentOptions(opts ...agent.AgentOption) ExperimentOption {
	return func(e *MontyHallExperiment) {
		e.agentOpts = append(e.agentOpts, opts...)
	}
}

func NewMontyHallExperiment(cfg *config.ExperimentConfig, opts ...ExperimentOption) (*MontyHallExperiment, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	seed := cfg.Seed
	if seed == 0 {
		s, err := random.NewSeed()
		if err != nil {
			return nil, err
		}
		seed = s
	}

	e := &MontyHallExperiment{
		cfg:   cfg,
		runID: uuid.New().String(),
		seed:  seed,
		seeds: random.NewSource(seed),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *MontyHallExperiment) RunID() string {
	return e.runID
}

// Seed is the seed actually used, so a run with a random seed can be replayed.
func (e *MontyHallExperiment) Seed() int64 {
	return e.seed
}

func (e *MontyHallExperiment) Run(ctx context.Context) error {
	e.mu.Lock()
	e.status = core.ExperimentStatus{Running: true, StartTime: time.Now()}
	e.report = Report{
		RunID:     e.runID,
		Name:      e.cfg.Name,
		DoorCount: e.cfg.DoorCount,
		Trials:    e.cfg.Trials,
		Seed:      e.seed,
		StartedAt: e.status.StartTime,
	}
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.status.Running = false
		e.status.EndTime = time.Now()
		e.mu.Unlock()
	}()

	log.Printf("Starting experiment %s (run %s): %d doors, %d trials per agent, seed %d",
		e.cfg.Name, e.runID, e.cfg.DoorCount, e.cfg.Trials, e.seed)

	for _, name := range e.cfg.Agents {
		summary, err := e.runAgent(ctx, name)
		if err != nil {
			err = fmt.Errorf("agent %s: %w", name, err)
			e.mu.Lock()
			e.status.Errors = append(e.status.Errors, err)
			e.mu.Unlock()
			return err
		}

		e.mu.Lock()
		e.report.Summaries = append(e.report.Summaries, summary)
		e.mu.Unlock()

		log.Printf("%s: Total games: %d, Wins: %d, Win Rate: %.2f%% (95%% CI %.2f%%-%.2f%%)",
			summary.Agent, summary.Trials, summary.Wins,
			summary.WinRate*100, summary.CILow*100, summary.CIHigh*100)
		e.publish(summary.Agent, messaging.BatchDone{
			RunID:   e.runID,
			Agent:   summary.Agent,
			Trials:  summary.Trials,
			WinRate: summary.WinRate,
		})
	}
	return nil
}

// runAgent plays one agent's batch against a fresh engine.
func (e *MontyHallExperiment) runAgent(ctx context.Context, name string) (Summary, error) {
	ctx, span := telemetry.Tracer().Start(ctx, "experiment.agent_batch", trace.WithAttributes(
		attribute.String("run_id", e.runID),
		attribute.String("agent", name),
		attribute.Int("doors", e.cfg.DoorCount),
		attribute.Int("trials", e.cfg.Trials),
	))
	defer span.End()

	env, err := environment.NewMonty(e.cfg.DoorCount, environment.WithRand(e.seeds.Next()))
	if err != nil {
		return Summary{}, fail(span, err)
	}

	opts := []agent.AgentOption{
		agent.WithRand(e.seeds.Next()),
		agent.WithScript(e.cfg.LuaScript),
	}
	opts = append(opts, e.agentOpts...)
	a, err := agent.New(name, opts...)
	if err != nil {
		return Summary{}, fail(span, err)
	}
	if c, ok := a.(io.Closer); ok {
		defer c.Close()
	}

	results, err := runTrials(ctx, env, a, e.cfg.Trials, func(trial int, r core.Result) {
		e.publish(a.Name(), messaging.TrialOutcome{
			RunID: e.runID,
			Agent: a.Name(),
			Trial: trial,
			Won:   r.Won,
			Score: r.Score,
		})
	})
	if err != nil {
		return Summary{}, fail(span, err)
	}

	summary, err := Summarize(a.Name(), results)
	if err != nil {
		return Summary{}, fail(span, err)
	}
	span.SetAttributes(
		attribute.Int("wins", summary.Wins),
		attribute.Float64("win_rate", summary.WinRate),
	)
	return summary, nil
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}

func (e *MontyHallExperiment) publish(from string, content any) {
	if e.broker == nil {
		return
	}
	if err := e.broker.Publish(messaging.Message{
		From:      from,
		Content:   content,
		Timestamp: time.Now(),
	}); err != nil {
		log.Printf("Warning: failed to publish %T: %v", content, err)
	}
}

func (e *MontyHallExperiment) GetStatus() core.ExperimentStatus {
	e.mu.RLock()
	defer e.mu.RUnlock()
	status := e.status
	status.Errors = append([]error(nil), e.status.Errors...)
	return status
}

// Report returns the summaries collected so far.
func (e *MontyHallExperiment) Report() Report {
	e.mu.RLock()
	defer e.mu.RUnlock()
	r := e.report
	r.Summaries = append([]Summary(nil), e.report.Summaries...)
	return r
}
