package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ekarna/policyrl/core"
	"github.com/ekarna/policyrl/estimators"
	"github.com/ekarna/policyrl/policies"
	"github.com/ekarna/policyrl/selectors"
	"github.com/ekarna/policyrl/trainer"
	"github.com/ekarna/policyrl/util"
)

func TrainCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train the selected algorithm on the maze",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()

			maze, err := trainer.NewMaze(mazeWidth, mazeHeight)
			if err != nil {
				return err
			}
			policy, err := buildPolicy()
			if err != nil {
				return err
			}
			t, err := trainer.New(trainer.Config{
				Episodes: episodes,
				Horizon:  horizon,
				Gamma:    gamma,
			}, maze, policy, logger)
			if err != nil {
				return err
			}

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt)
			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()
			go func() {
				<-sigCh
				cancel()
			}()

			result, err := t.Run(ctx)
			if err != nil {
				return err
			}
			logger.Info().
				Float64("mean_return", result.Returns.Mean).
				Float64("best_return", result.Returns.Best).
				Msg("done")
			if outputPath != "" {
				if err := util.SaveJSON(outputPath, result); err != nil {
					return fmt.Errorf("save result: %w", err)
				}
			}
			return nil
		},
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if verbose {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(level).
		With().Timestamp().Logger()
}

func buildPolicy() (*policies.UpdateablePolicy, error) {
	cfg := estimators.DefaultTabularConfig(4)
	cfg.LearningRate = learningRate
	cfg.StateActionValue = stateActionValue
	estimator, err := estimators.NewTabular(cfg)
	if err != nil {
		return nil, err
	}
	selector, err := buildSelector()
	if err != nil {
		return nil, err
	}
	strategy, err := buildStrategy(estimator)
	if err != nil {
		return nil, err
	}
	return policies.NewUpdateablePolicy(selector, estimator, strategy), nil
}

func buildSelector() (selectors.Selector, error) {
	switch selectorName {
	case "greedy":
		return selectors.NewGreedy(), nil
	case "epsilon-greedy":
		return selectors.NewEpsilonGreedy(selectors.EpsilonGreedyConfig{
			EpsilonInitial: epsilonInitial,
			EpsilonMin:     epsilonMin,
			DecayRate:      epsilonDecayRate,
			DecayByEpisode: epsilonByEpisode,
		})
	case "noisy":
		return selectors.NewNoisy(selectors.NoisyConfig{
			ExplorationNoise:    explorationNoise,
			MinExplorationNoise: minNoise,
			NoiseDecay:          noiseDecay,
		})
	case "weighted-random":
		return selectors.NewWeightedRandom(), nil
	case "search-tree":
		return selectors.NewSearchTree(selectors.DefaultSearchTreeConfig())
	default:
		return nil, fmt.Errorf("unknown selector %q", selectorName)
	}
}

func buildStrategy(estimator core.Estimator) (policies.GradientStrategy, error) {
	switch algorithmName {
	case "vanilla":
		return policies.NewVanillaPolicyGradient(estimator, policies.VanillaConfig{
			ApplyEntropy:       applyEntropy,
			EntropyCoefficient: entropyCoeff,
		})
	case "ppo":
		return policies.NewProximalPolicyUpdate(estimator, policies.ProximalConfig{
			Epsilon:     clipEpsilon,
			UpdateCycle: updateCycle,
		})
	case "mcts":
		return policies.NewMCTSPolicyUpdate(estimator), nil
	default:
		return nil, fmt.Errorf("unknown algorithm %q", algorithmName)
	}
}
