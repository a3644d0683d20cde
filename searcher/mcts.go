package searcher

import (
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/exp/slices"

	"gametrace/game"
	"gametrace/trace"
)

type Option func(mcts *MCTS)

type MCTS struct {
	iterations  int
	cutoff      int
	exploration float64
	rng         *rand.Rand
	metrics     MetricsCollector
	tree        *Tree
}

// MCTSResult is the outcome of one MCTS run. The step log is written to the
// recorder passed to Search, not returned here.
type MCTSResult struct {
	BestMove int // trace.NoMove when the root was never expanded
	Tree     *Tree
	Metric   SearchMetric
}

func WithIterations(iterations int) Option {
	return func(m *MCTS) {
		if iterations > 0 {
			m.iterations = iterations
		}
	}
}

func WithCutoff(depth int) Option {
	return func(m *MCTS) {
		if depth > 0 {
			m.cutoff = depth
		}
	}
}

func WithExploration(c float64) Option {
	return func(m *MCTS) {
		if c >= 0 {
			m.exploration = c
		}
	}
}

// WithRand injects the source of randomness used by expansion and rollout.
func WithRand(rng *rand.Rand) Option {
	return func(m *MCTS) {
		if rng != nil {
			m.rng = rng
		}
	}
}

// WithSeed makes the search reproducible.
func WithSeed(seed uint64) Option {
	return func(m *MCTS) {
		m.rng = rand.New(rand.NewSource(seed))
	}
}

func WithMetrics() Option {
	return func(m *MCTS) {
		m.metrics = NewMetricsCollector()
	}
}

func NewMCTS(options ...Option) *MCTS {
	m := &MCTS{ // Default values
		iterations:  DefaultIterations,
		cutoff:      DefaultCutoff,
		exploration: Exploration,
		metrics:     NewNoMetricsCollector(),
	}
	for _, option := range options {
		option(m)
	}
	if m.rng == nil {
		m.rng = rand.New(rand.NewSource(uint64(time.Now().UnixNano())))
	}
	return m
}

// Search grows a fresh tree from board with player to move and returns the
// most visited root move.
func (m *MCTS) Search(board game.Board, player game.Cell, rec *trace.Recorder) MCTSResult {
	m.tree = newTree(board, player)
	m.metrics.Start("mcts")
	root := m.tree.Root()

	if root.Terminal {
		rec.Record(root.State, "No expansion occurred: the position is already decided.", trace.NewMeta(trace.PhaseComplete))
		return MCTSResult{BestMove: trace.NoMove, Tree: m.tree, Metric: m.metrics.Complete()}
	}

	rec.Recordf(root.State, trace.NewMeta(trace.PhaseStart),
		"MCTS: %s to move, %d iterations", player, m.iterations)

	for i := 1; i <= m.iterations; i++ {
		m.simulate(i, rec)
		m.metrics.AddIteration()
	}

	best := m.tree.mostVisited(0)
	result := MCTSResult{BestMove: trace.NoMove, Tree: m.tree}
	root = m.tree.Root()
	summary := trace.NewMeta(trace.PhaseComplete)
	summary.N = root.N
	summary.W = root.W
	summary.Q = root.Q()
	if best == NoParent {
		rec.Record(root.State, "MCTS complete: no move was explored.", summary)
	} else {
		child := m.tree.Node(best)
		result.BestMove = child.Move
		summary.Move = child.Move
		summary.BestMove = child.Move
		summary.N = child.N
		summary.W = child.W
		summary.Q = child.Q()
		rec.Recordf(child.State, summary, "MCTS complete: best move = cell %d (N=%d, Q=%.2f)",
			child.Move, child.N, child.Q())
	}

	result.Metric = m.metrics.Complete()
	log.Debug().
		Int("iterations", m.iterations).
		Int("nodes", m.tree.Len()).
		Int("bestMove", result.BestMove).
		Msg("mcts-complete")
	return result
}

// Tree returns the tree of the latest search.
func (m *MCTS) Tree() *Tree {
	return m.tree
}

func (m *MCTS) simulate(iteration int, rec *trace.Recorder) {
	selected := m.selection(iteration, rec)
	node := m.expansion(iteration, selected, rec)
	reward := m.rollout(iteration, node, rec)
	m.backup(iteration, node, reward, rec)
}

// selection descends while the node is fully expanded, has children and is
// not terminal.
func (m *MCTS) selection(iteration int, rec *trace.Recorder) NodeID {
	id := NodeID(0)
	descended := false
	for {
		n := m.tree.Node(id)
		if len(n.Untried) > 0 || len(n.Children) == 0 || n.Terminal {
			break
		}
		id = m.pickChild(id)
		descended = true

		child := m.tree.Node(id)
		meta := trace.NewMeta(trace.PhaseSelection)
		meta.Iteration = iteration
		meta.Move = child.Move
		meta.N = child.N
		meta.W = child.W
		meta.Q = child.Q()
		rec.Recordf(child.State, meta, "Iteration %d: select cell %d (N=%d, Q=%.2f)",
			iteration, child.Move, child.N, child.Q())
	}

	if !descended {
		n := m.tree.Node(id)
		meta := trace.NewMeta(trace.PhaseSelection)
		meta.Iteration = iteration
		meta.N = n.N
		meta.W = n.W
		meta.Q = n.Q()
		rec.Recordf(n.State, meta, "Iteration %d: selection stays at the root", iteration)
	}
	return id
}

// pickChild returns the child with the highest UCT score. Unvisited children
// win in order; ties go to the earlier child.
func (m *MCTS) pickChild(id NodeID) NodeID {
	node := m.tree.Node(id)
	policy := newUCT(m.exploration, node.N)

	best := NoParent
	var bestScore float64
	for _, c := range node.Children {
		child := m.tree.Node(c)
		if child.N == 0 {
			return c
		}
		score := policy.evaluate(child.Q(), child.N)
		if best == NoParent || score > bestScore {
			best, bestScore = c, score
		}
	}
	return best
}

// expansion adds one random untried child below a visited, non-terminal node.
// The root is rolled out in place on its first visit.
func (m *MCTS) expansion(iteration int, id NodeID, rec *trace.Recorder) NodeID {
	n := m.tree.Node(id)
	meta := trace.NewMeta(trace.PhaseExpansion)
	meta.Iteration = iteration

	switch {
	case n.Terminal:
		rec.Recordf(n.State, meta, "Iteration %d: no expansion, node is terminal", iteration)
		return id
	case n.N == 0:
		rec.Recordf(n.State, meta, "Iteration %d: no expansion, first visit rolls out in place", iteration)
		return id
	case len(n.Untried) == 0:
		rec.Recordf(n.State, meta, "Iteration %d: no expansion, node is fully expanded", iteration)
		return id
	}

	k := m.rng.Intn(len(n.Untried))
	move := n.Untried[k]
	n.Untried = slices.Delete(n.Untried, k, k+1)

	child := m.tree.addChild(id, move)
	m.metrics.AddNode()

	c := m.tree.Node(child)
	meta.Move = move
	rec.Recordf(c.State, meta, "Iteration %d: expand cell %d for %s", iteration, move, c.Player.Opponent())
	return child
}

// rollout plays uniformly random moves from the node until the game ends or
// the cutoff is reached, and scores the result from MAX's perspective.
func (m *MCTS) rollout(iteration int, id NodeID, rec *trace.Recorder) float64 {
	n := m.tree.Node(id)
	board := n.State.Copy()
	player := n.Player

	plies := 0
	for plies < m.cutoff && !game.IsTerminal(board) {
		moves := game.EmptyCells(board)
		board[moves[m.rng.Intn(len(moves))]] = player // Random rollout policy
		player = player.Opponent()
		plies++
	}

	if game.IsTerminal(board) {
		m.metrics.AddFullPlayout()
	} else {
		m.metrics.AddCappedPlayout()
	}
	reward := game.RolloutReward(board)

	meta := trace.NewMeta(trace.PhaseSimulation)
	meta.Iteration = iteration
	meta.Depth = plies
	meta.Reward = reward
	rec.Recordf(board, meta, "Iteration %d: rollout of %d plies, reward = %.2f", iteration, plies, reward)
	return reward
}

// backup adds the reward unchanged to every node on the path to the root.
func (m *MCTS) backup(iteration int, id NodeID, reward float64, rec *trace.Recorder) {
	for id != NoParent {
		n := m.tree.Node(id)
		n.N++
		n.W += reward

		meta := trace.NewMeta(trace.PhaseBackprop)
		meta.Iteration = iteration
		meta.Move = n.Move
		meta.N = n.N
		meta.W = n.W
		meta.Q = n.Q()
		meta.Reward = reward
		if n.Parent == NoParent {
			rec.Recordf(n.State, meta, "Iteration %d: update root (N=%d, W=%.2f, Q=%.2f)",
				iteration, n.N, n.W, n.Q())
		} else {
			rec.Recordf(n.State, meta, "Iteration %d: update cell %d (N=%d, W=%.2f, Q=%.2f)",
				iteration, n.Move, n.N, n.W, n.Q())
		}
		id = n.Parent
	}

	root := m.tree.Root()
	log.Debug().
		Int("iteration", iteration).
		Float64("reward", reward).
		Int("rootN", root.N).
		Float64("rootQ", root.Q()).
		Msg("mcts-iteration")
}
