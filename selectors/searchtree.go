package selectors

import (
	"math"
	"time"

	erand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/ekarna/policyrl/core"
)

type SearchTreeConfig struct {
	// CPuct scales the exploration term of the PUCT score.
	CPuct float64
	// Alpha is the Dirichlet shape of the root exploration noise.
	Alpha float64
	// Epsilon weights the prior against the Dirichlet noise.
	Epsilon float64
	// Tau is the visit-count temperature for policy values.
	Tau float64
	// ResetCycle drops the tree every ResetCycle episodes; 0 keeps it.
	ResetCycle int
}

func DefaultSearchTreeConfig() SearchTreeConfig {
	return SearchTreeConfig{
		CPuct:   2.5,
		Alpha:   0.6,
		Epsilon: 0.8,
		Tau:     1.1,
	}
}

func (c SearchTreeConfig) validate() error {
	if c.CPuct <= 0 {
		return &core.ConfigError{Option: "cPUCT", Reason: "must be positive"}
	}
	if c.Alpha <= 0 {
		return &core.ConfigError{Option: "alpha", Reason: "must be positive"}
	}
	if c.Epsilon < 0 || c.Epsilon > 1 {
		return &core.ConfigError{Option: "epsilon", Reason: "must be in [0,1]"}
	}
	if c.Tau <= 0 {
		return &core.ConfigError{Option: "tau", Reason: "must be positive"}
	}
	if c.ResetCycle < 0 {
		return &core.ConfigError{Option: "resetCycle", Reason: "must be non-negative"}
	}
	return nil
}

type treeEdge struct {
	action int
	prior  float64
	value  float64
	parent *treeNode
	child  *treeNode
}

type treeNode struct {
	parent *treeNode
	visits int
	edges  map[int]*treeEdge
	max    *treeEdge
}

func newTreeNode(parent *treeNode) *treeNode {
	return &treeNode{
		parent: parent,
		edges:  make(map[int]*treeEdge),
	}
}

// setPriors seeds edge priors from the score vector and renormalizes the
// priors of all known edges.
func (n *treeNode) setPriors(scores core.ScoreVector, legal []int) {
	for _, a := range legal {
		if e, ok := n.edges[a]; ok {
			e.prior = scores[a]
			continue
		}
		e := &treeEdge{action: a, prior: scores[a], parent: n}
		e.child = newTreeNode(n)
		n.edges[a] = e
	}
	sum := 0.0
	for _, e := range n.edges {
		sum += e.prior
	}
	if sum > 0 {
		for _, e := range n.edges {
			e.prior /= sum
		}
	}
}

// policyValue derives the edge's policy value from tempered visit counts.
func (e *treeEdge) policyValue(tau float64) float64 {
	if e.child.max == nil {
		return 0
	}
	return math.Pow(float64(e.child.visits), 1/tau) / math.Pow(float64(e.parent.visits), 1/tau)
}

func (e *treeEdge) puct(cPuct, epsilon, dirichlet float64) float64 {
	exploration := cPuct * (epsilon*e.prior + (1-epsilon)*dirichlet) *
		math.Sqrt(float64(e.parent.visits)) / float64(1+e.child.visits)
	return e.value + exploration
}

// backup folds the state value into the running edge value.
func (e *treeEdge) backup(stateValue float64) {
	if e.child.max == nil {
		e.value = stateValue
		return
	}
	e.value += (e.prior + stateValue - e.value) / float64(1+e.child.visits)
}

// SearchTree guides action selection with a PUCT search tree seeded by the
// estimator's scores as priors. Visit statistics gathered along the episode
// are backed up at episode end and exposed through each recorded state's
// policy value.
type SearchTree struct {
	cfg SearchTreeConfig

	root    *treeNode
	current *treeNode
	trail   []*core.State

	gamma  distuv.Gamma
	resets int
}

var _ Selector = &SearchTree{}
var _ Recorder = &SearchTree{}

func NewSearchTree(cfg SearchTreeConfig) (*SearchTree, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &SearchTree{
		cfg: cfg,
		gamma: distuv.Gamma{
			Alpha: cfg.Alpha,
			Beta:  1,
			Src:   erand.NewSource(uint64(time.Now().UnixNano())),
		},
	}, nil
}

func (s *SearchTree) Select(scores core.ScoreVector, legal []int, forceGreedy bool) (int, error) {
	if len(legal) == 0 {
		return -1, core.ErrEmptyActionSet
	}
	node := s.advance()
	node.setPriors(scores, legal)

	var best *treeEdge
	maxVal := math.Inf(-1)
	if forceGreedy {
		for _, a := range sortedInts(legal) {
			e := node.edges[a]
			if v := e.policyValue(s.cfg.Tau); best == nil || v > maxVal {
				best = e
				maxVal = v
			}
		}
	} else {
		node.visits++
		noise := s.dirichlet(legal)
		for _, a := range sortedInts(legal) {
			e := node.edges[a]
			if v := e.puct(s.cfg.CPuct, s.cfg.Epsilon, noise[a]); best == nil || v > maxVal {
				best = e
				maxVal = v
			}
		}
	}
	node.max = best
	return best.action, nil
}

// advance moves to the child picked at the previous step, creating the root
// on first use.
func (s *SearchTree) advance() *treeNode {
	if s.root == nil {
		s.root = newTreeNode(nil)
	}
	if s.current == nil {
		s.current = s.root
	} else {
		s.current = s.current.max.child
	}
	return s.current
}

// dirichlet draws one normalized Dirichlet sample over the legal actions.
func (s *SearchTree) dirichlet(legal []int) map[int]float64 {
	draws := make(map[int]float64, len(legal))
	sum := 0.0
	for _, a := range legal {
		g := s.gamma.Rand()
		draws[a] = g
		sum += g
	}
	for a, g := range draws {
		draws[a] = g / sum
	}
	return draws
}

// Record pushes a decided state onto the episode trail.
func (s *SearchTree) Record(state *core.State) {
	s.trail = append(s.trail, state)
}

// EndEpisode backs the recorded states' TD targets up the selected path and
// rewrites each state's policy value from the visit statistics. The path
// position is then reset; the tree itself is dropped every ResetCycle
// episodes.
func (s *SearchTree) EndEpisode() {
	node := s.current
	for i := len(s.trail) - 1; i >= 0 && node != nil; i-- {
		state := s.trail[i]
		if node.max != nil {
			node.max.backup(state.TDTarget)
			state.PolicyValue = node.max.policyValue(s.cfg.Tau)
		}
		node = node.parent
	}
	s.trail = nil
	s.current = nil
}

// Decay counts completed episodes toward the tree reset cycle.
func (s *SearchTree) Decay() {
	if s.cfg.ResetCycle < 1 {
		return
	}
	s.resets++
	if s.resets >= s.cfg.ResetCycle {
		s.resets = 0
		s.root = nil
		s.current = nil
	}
}
