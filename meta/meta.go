// meta/meta.go
package meta

// BOARD_SIZE defines the default board side length.
const BOARD_SIZE = 3

// DEPTH_LIMIT defines the deepest ply Minimax expands before scoring a leaf.
const DEPTH_LIMIT = 6

// ITERATIONS defines the iteration budget for MCTS.
const ITERATIONS = 50

// WITH_CUTOFF defines the rollout depth cap for MCTS.
const WITH_CUTOFF = 10

// SPEED_MS defines the default playback interval.
const SPEED_MS = 500

// MIN_SPEED_MS and MAX_SPEED_MS bound the playback interval offered to users.
const (
	MIN_SPEED_MS = 100
	MAX_SPEED_MS = 1500
)
