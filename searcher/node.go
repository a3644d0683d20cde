package searcher

import (
	"gametrace/game"
	"gametrace/trace"
)

// NodeID indexes a node inside its Tree.
type NodeID int

// NoParent is the parent of the root.
const NoParent NodeID = -1

// Node is one explored board state. Parent and children are arena ids, so
// the tree holds no pointer cycles.
type Node struct {
	State    game.Board
	Player   game.Cell // Player to move in State
	Parent   NodeID
	Move     int // Cell played to reach this node, trace.NoMove for the root
	Children []NodeID
	Untried  []int
	Terminal bool
	N        int
	W        float64
}

// Q is the mean reward, 0 before the first visit.
func (n *Node) Q() float64 {
	if n.N == 0 {
		return 0
	}
	return n.W / float64(n.N)
}

// Tree is a flat arena of nodes; id 0 is the root.
type Tree struct {
	nodes []Node
}

func newTree(state game.Board, player game.Cell) *Tree {
	t := &Tree{}
	t.add(state.Copy(), player, NoParent, trace.NoMove)
	return t
}

func (t *Tree) add(state game.Board, player game.Cell, parent NodeID, move int) NodeID {
	terminal := game.IsTerminal(state)
	var untried []int
	if !terminal {
		untried = game.EmptyCells(state)
	}
	t.nodes = append(t.nodes, Node{
		State:    state,
		Player:   player,
		Parent:   parent,
		Move:     move,
		Untried:  untried,
		Terminal: terminal,
	})
	return NodeID(len(t.nodes) - 1)
}

// addChild materializes the node reached by playing move from parent.
func (t *Tree) addChild(parent NodeID, move int) NodeID {
	p := t.Node(parent)
	child := t.add(p.State.Play(move, p.Player), p.Player.Opponent(), parent, move)
	// add may have grown the arena; re-read the parent.
	p = t.Node(parent)
	p.Children = append(p.Children, child)
	return child
}

// Root returns the root node.
func (t *Tree) Root() *Node {
	return t.Node(0)
}

// Node returns the node with the given id. The pointer is invalidated when
// the tree grows.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Len returns the number of nodes in the tree.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Walk visits every node in creation order.
func (t *Tree) Walk(visit func(id NodeID, n *Node)) {
	for i := range t.nodes {
		visit(NodeID(i), &t.nodes[i])
	}
}

// childVisits sums the visit counts of a node's children.
func (t *Tree) childVisits(id NodeID) int {
	sum := 0
	for _, c := range t.Node(id).Children {
		sum += t.Node(c).N
	}
	return sum
}

// mostVisited returns the child of id with the highest N, the first one on
// ties, or NoParent when id has no children.
func (t *Tree) mostVisited(id NodeID) NodeID {
	best := NoParent
	bestN := -1
	for _, c := range t.Node(id).Children {
		if n := t.Node(c).N; n > bestN {
			best, bestN = c, n
		}
	}
	return best
}
