package trainer

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/gosuri/uilive"
	"github.com/rs/zerolog"

	"github.com/ekarna/policyrl/analysis"
	"github.com/ekarna/policyrl/core"
	"github.com/ekarna/policyrl/policies"
)

type Config struct {
	Episodes int
	// Horizon caps the number of steps per episode.
	Horizon int
	// Gamma discounts future rewards when filling TD targets.
	Gamma float64
	// RunID labels log events; a fresh id is generated when empty.
	RunID string
}

func (c Config) validate() error {
	if c.Episodes < 1 {
		return &core.ConfigError{Option: "episodes", Reason: "must be at least 1"}
	}
	if c.Horizon < 1 {
		return &core.ConfigError{Option: "horizon", Reason: "must be at least 1"}
	}
	if c.Gamma < 0 || c.Gamma > 1 {
		return &core.ConfigError{Option: "gamma", Reason: "must be in [0,1]"}
	}
	return nil
}

type Result struct {
	RunID             string
	CompletedEpisodes int
	TotalSteps        int
	Returns           analysis.Summary
}

// Trainer drives the policy through episodes of the environment, builds the
// transition batches and applies the policy-gradient update after every
// episode.
type Trainer struct {
	cfg    Config
	env    Environment
	policy *policies.UpdateablePolicy
	logger zerolog.Logger
}

func New(cfg Config, env Environment, policy *policies.UpdateablePolicy, logger zerolog.Logger) (*Trainer, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.RunID == "" {
		cfg.RunID = uuid.NewString()
	}
	return &Trainer{
		cfg:    cfg,
		env:    env,
		policy: policy,
		logger: logger.With().Str("run", cfg.RunID).Logger(),
	}, nil
}

// Run trains for the configured number of episodes or until the context is
// cancelled, whichever comes first.
func (t *Trainer) Run(ctx context.Context) (*Result, error) {
	writer := uilive.New()
	writer.Start()
	defer writer.Stop()

	tracker := analysis.NewReturnTracker()
	result := &Result{RunID: t.cfg.RunID}
	t.logger.Info().Int("episodes", t.cfg.Episodes).Int("horizon", t.cfg.Horizon).Msg("training started")
	start := time.Now()

	for episode := 0; episode < t.cfg.Episodes; episode++ {
		select {
		case <-ctx.Done():
			t.logger.Warn().Int("episode", episode).Msg("training cancelled")
			result.Returns = tracker.Summary()
			return result, ctx.Err()
		default:
		}
		fmt.Fprintln(writer, progressLine(t.cfg.RunID, episode, t.cfg.Episodes, result.TotalSteps))

		episodeTrace, err := t.runEpisode()
		if err != nil {
			t.logger.Error().Err(err).Int("episode", episode).Msg("episode failed")
			result.Returns = tracker.Summary()
			return result, err
		}
		result.TotalSteps += episodeTrace.len()

		episodeTrace.fillTargets(t.cfg.Gamma)
		t.policy.OnEpisodeEnd()
		if err := t.policy.Update(episodeTrace.transitions()); err != nil {
			t.logger.Error().Err(err).Int("episode", episode).Msg("update failed")
			result.Returns = tracker.Summary()
			return result, err
		}
		tracker.Observe(episodeTrace.totalReward())
		result.CompletedEpisodes++
	}

	result.Returns = tracker.Summary()
	t.logger.Info().
		Int("completed", result.CompletedEpisodes).
		Int("steps", result.TotalSteps).
		Float64("mean_return", result.Returns.Mean).
		Dur("elapsed", time.Since(start)).
		Msg("training finished")
	return result, nil
}

// progressLine renders the live status line for the 0-based episode index;
// the display counts episodes from 1.
func progressLine(runID string, episode, total, steps int) string {
	return fmt.Sprintf("Run %s, Episode %d/%d, Steps: %d", runID, episode+1, total, steps)
}

// runEpisode plays one episode up to the horizon and returns its trace.
func (t *Trainer) runEpisode() (*trace, error) {
	state, err := t.env.Reset()
	if err != nil {
		return nil, fmt.Errorf("reset: %w", err)
	}
	episodeTrace := newTrace()
	for step := 0; step < t.cfg.Horizon; step++ {
		if err := t.policy.Act(state, false); err != nil {
			return nil, fmt.Errorf("act: %w", err)
		}
		next, reward, done, err := t.env.Step(state)
		if err != nil {
			return nil, fmt.Errorf("step: %w", err)
		}
		episodeTrace.add(state, reward)
		if done {
			return episodeTrace, nil
		}
		state = next
	}
	return episodeTrace, nil
}
