package searcher

import "gametrace/meta"

// Hyperparameters for MCTS and Minimax

const DefaultIterations = meta.ITERATIONS // Iteration budget per search
const DefaultCutoff = meta.WITH_CUTOFF    // Rollout plies before scoring heuristically
const DefaultDepthLimit = meta.DEPTH_LIMIT
