// Package hierarchy assembles a user's flat task list into trees.
//
// The list is indexed once into an arena keyed by id plus a parent → children
// adjacency map, so building every tree in the list is linear in its size.
// Child order always follows the order of the input slice.
package hierarchy

import (
	"errors"
	"fmt"
	"sort"
	"time"

	model "task-tree-system.com/task-tree-system/internal/models"
)

// DefaultTopN is the number of trees returned by TopUrgent when no limit is given.
const DefaultTopN = 5

var ErrCycle = errors.New("task hierarchy contains a cycle")

// Node is the presentation shape of a task together with its descendants.
type Node struct {
	ID            uint       `json:"id"`
	Title         string     `json:"title"`
	Description   *string    `json:"description"`
	DueDate       *time.Time `json:"due_date"`
	Weight        int        `json:"weight"`
	PriorityScore int        `json:"priority_score"`
	OwnerID       uint       `json:"owner_id"`
	ParentID      *uint      `json:"parent_id"`
	Subtasks      []Node     `json:"subtasks"`
}

func newNode(t model.Task) Node {
	return Node{
		ID:            t.ID,
		Title:         t.Title,
		Description:   t.Description,
		DueDate:       t.DueDate,
		Weight:        t.Weight,
		PriorityScore: t.PriorityScore,
		OwnerID:       t.OwnerID,
		ParentID:      t.ParentID,
		Subtasks:      []Node{},
	}
}

type Index struct {
	tasks    []model.Task
	byID     map[uint]int
	children map[uint][]int
}

func NewIndex(tasks []model.Task) *Index {
	ix := &Index{
		tasks:    tasks,
		byID:     make(map[uint]int, len(tasks)),
		children: make(map[uint][]int),
	}

	for i, t := range tasks {
		ix.byID[t.ID] = i
		if t.ParentID != nil {
			ix.children[*t.ParentID] = append(ix.children[*t.ParentID], i)
		}
	}

	return ix
}

// Lookup returns the indexed task with the given id.
func (ix *Index) Lookup(id uint) (model.Task, bool) {
	i, ok := ix.byID[id]
	if !ok {
		return model.Task{}, false
	}
	return ix.tasks[i], true
}

// Build returns root with all of its descendants nested under Subtasks.
// root does not need to be part of the index.
func (ix *Index) Build(root model.Task) (Node, error) {
	return ix.build(root, make(map[uint]struct{}))
}

func (ix *Index) build(t model.Task, path map[uint]struct{}) (Node, error) {
	if _, seen := path[t.ID]; seen {
		return Node{}, fmt.Errorf("%w: task %d is its own ancestor", ErrCycle, t.ID)
	}
	path[t.ID] = struct{}{}
	defer delete(path, t.ID)

	node := newNode(t)
	for _, ci := range ix.children[t.ID] {
		child, err := ix.build(ix.tasks[ci], path)
		if err != nil {
			return Node{}, err
		}
		node.Subtasks = append(node.Subtasks, child)
	}

	return node, nil
}

// Roots builds one tree per task that has no parent.
func (ix *Index) Roots() ([]Node, error) {
	var roots []model.Task
	for _, t := range ix.tasks {
		if t.IsRoot() {
			roots = append(roots, t)
		}
	}
	return ix.buildAll(roots)
}

// Orphans returns tasks whose parent is not in the index, typically because
// the parent was deleted.
func (ix *Index) Orphans() []model.Task {
	var orphans []model.Task
	for _, t := range ix.tasks {
		if t.ParentID == nil {
			continue
		}
		if _, ok := ix.byID[*t.ParentID]; !ok {
			orphans = append(orphans, t)
		}
	}
	return orphans
}

// Descendant reports whether candidate is id itself or somewhere below it.
func (ix *Index) Descendant(id, candidate uint) bool {
	seen := make(map[uint]struct{})
	stack := []uint{id}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if cur == candidate {
			return true
		}
		if _, ok := seen[cur]; ok {
			continue
		}
		seen[cur] = struct{}{}
		for _, ci := range ix.children[cur] {
			stack = append(stack, ix.tasks[ci].ID)
		}
	}
	return false
}

func (ix *Index) buildAll(tasks []model.Task) ([]Node, error) {
	nodes := make([]Node, 0, len(tasks))
	for _, t := range tasks {
		n, err := ix.Build(t)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, n)
	}
	return nodes, nil
}

// Forest builds the root trees of tasks.
func Forest(tasks []model.Task) ([]Node, error) {
	return NewIndex(tasks).Roots()
}

// TopUrgent ranks tasks by priority score, highest first, and builds a tree
// for each of the first n. Ties keep input order. n <= 0 means DefaultTopN.
func TopUrgent(tasks []model.Task, n int) ([]Node, error) {
	if n <= 0 {
		n = DefaultTopN
	}

	ranked := make([]model.Task, len(tasks))
	copy(ranked, tasks)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PriorityScore > ranked[j].PriorityScore
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}

	return NewIndex(tasks).buildAll(ranked)
}
