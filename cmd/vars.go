package cmd

import "github.com/spf13/cobra"

var (
	episodes int
	horizon  int
	gamma    float64

	mazeWidth  int
	mazeHeight int

	selectorName  string
	algorithmName string

	learningRate float64

	epsilonInitial    float64
	epsilonMin        float64
	epsilonDecayRate  float64
	epsilonByEpisode  bool
	explorationNoise  float64
	minNoise          float64
	noiseDecay        float64
	entropyCoeff      float64
	applyEntropy      bool
	clipEpsilon       float64
	updateCycle       int
	stateActionValue  bool
	verbose           bool
	outputPath        string
)

func AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().IntVar(&episodes, "episodes", 1000, "Number of training episodes")
	cmd.PersistentFlags().IntVar(&horizon, "horizon", 100, "Maximum steps per episode")
	cmd.PersistentFlags().Float64Var(&gamma, "gamma", 0.99, "Reward discount factor")

	cmd.PersistentFlags().IntVar(&mazeWidth, "maze-width", 5, "Maze width")
	cmd.PersistentFlags().IntVar(&mazeHeight, "maze-height", 5, "Maze height")

	cmd.PersistentFlags().StringVar(&selectorName, "selector", "epsilon-greedy", "Action selector: greedy, epsilon-greedy, noisy, weighted-random, search-tree")
	cmd.PersistentFlags().StringVar(&algorithmName, "algorithm", "vanilla", "Update algorithm: vanilla, ppo, mcts")

	cmd.PersistentFlags().Float64Var(&learningRate, "learning-rate", 0.1, "Tabular estimator learning rate")

	cmd.PersistentFlags().Float64Var(&epsilonInitial, "epsilon-initial", 1.0, "Initial exploration probability")
	cmd.PersistentFlags().Float64Var(&epsilonMin, "epsilon-min", 0.1, "Exploration probability floor")
	cmd.PersistentFlags().Float64Var(&epsilonDecayRate, "epsilon-decay-rate", 0.999, "Geometric epsilon decay rate")
	cmd.PersistentFlags().BoolVar(&epsilonByEpisode, "epsilon-by-episode", false, "Decay epsilon hyperbolically by episode count")
	cmd.PersistentFlags().Float64Var(&explorationNoise, "exploration-noise", 0.2, "Initial noise variance for the noisy selector")
	cmd.PersistentFlags().Float64Var(&minNoise, "min-exploration-noise", 0.1, "Noise variance floor")
	cmd.PersistentFlags().Float64Var(&noiseDecay, "exploration-noise-decay", 0.9999, "Geometric noise decay rate")
	cmd.PersistentFlags().Float64Var(&entropyCoeff, "entropy-coefficient", 0.01, "Entropy regularization coefficient")
	cmd.PersistentFlags().BoolVar(&applyEntropy, "apply-entropy", true, "Apply entropy regularization")
	cmd.PersistentFlags().Float64Var(&clipEpsilon, "clip-epsilon", 0.2, "PPO probability-ratio clip range")
	cmd.PersistentFlags().IntVar(&updateCycle, "update-cycle", 1, "Batches between PPO reference refreshes")
	cmd.PersistentFlags().BoolVar(&stateActionValue, "state-action-value", false, "Estimator models a joint state value")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Debug logging")
	cmd.PersistentFlags().StringVar(&outputPath, "output", "", "Write the run result to this JSON file")
}
