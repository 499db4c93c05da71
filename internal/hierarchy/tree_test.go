package hierarchy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	model "task-tree-system.com/task-tree-system/internal/models"
)

func ptr(id uint) *uint { return &id }

func task(id uint, parent *uint, score int) model.Task {
	return model.Task{ID: id, Title: "task", Weight: 1, PriorityScore: score, OwnerID: 7, ParentID: parent}
}

func ids(nodes []Node) []uint {
	out := make([]uint, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.ID)
	}
	return out
}

func TestForest_AllRoots(t *testing.T) {
	tasks := []model.Task{task(1, nil, 0), task(2, nil, 0), task(3, nil, 0)}

	forest, err := Forest(tasks)
	require.NoError(t, err)

	assert.Equal(t, []uint{1, 2, 3}, ids(forest))
	for _, n := range forest {
		assert.NotNil(t, n.Subtasks)
		assert.Empty(t, n.Subtasks)
	}
}

func TestBuild_Chain(t *testing.T) {
	a, b, c := task(1, nil, 0), task(2, ptr(1), 0), task(3, ptr(2), 0)

	root, err := NewIndex([]model.Task{a, b, c}).Build(a)
	require.NoError(t, err)

	require.Len(t, root.Subtasks, 1)
	assert.Equal(t, uint(2), root.Subtasks[0].ID)
	require.Len(t, root.Subtasks[0].Subtasks, 1)
	assert.Equal(t, uint(3), root.Subtasks[0].Subtasks[0].ID)
	assert.Empty(t, root.Subtasks[0].Subtasks[0].Subtasks)
}

func TestBuild_ChildOrderFollowsInput(t *testing.T) {
	root := task(1, nil, 0)
	c1, c2, c3 := task(2, ptr(1), 0), task(3, ptr(1), 0), task(4, ptr(1), 0)

	n, err := NewIndex([]model.Task{root, c1, c2, c3}).Build(root)
	require.NoError(t, err)
	assert.Equal(t, []uint{2, 3, 4}, ids(n.Subtasks))

	n, err = NewIndex([]model.Task{c3, c1, root, c2}).Build(root)
	require.NoError(t, err)
	assert.Equal(t, []uint{4, 2, 3}, ids(n.Subtasks))
	assert.ElementsMatch(t, []uint{2, 3, 4}, ids(n.Subtasks))
}

func TestBuild_CopiesFields(t *testing.T) {
	desc := "details"
	src := model.Task{ID: 9, Title: "write report", Description: &desc, Weight: 3, PriorityScore: 150, OwnerID: 4}

	n, err := NewIndex(nil).Build(src)
	require.NoError(t, err)

	assert.Equal(t, Node{
		ID:            9,
		Title:         "write report",
		Description:   &desc,
		Weight:        3,
		PriorityScore: 150,
		OwnerID:       4,
		Subtasks:      []Node{},
	}, n)
}

func TestBuild_DetectsCycle(t *testing.T) {
	a, b, c := task(1, ptr(3), 0), task(2, ptr(1), 0), task(3, ptr(2), 0)

	_, err := NewIndex([]model.Task{a, b, c}).Build(a)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestBuild_SelfParent(t *testing.T) {
	a := task(1, ptr(1), 0)

	_, err := NewIndex([]model.Task{a}).Build(a)
	assert.ErrorIs(t, err, ErrCycle)
}

func TestRoots_IgnoresUnreachableCycle(t *testing.T) {
	tasks := []model.Task{task(1, nil, 0), task(2, ptr(3), 0), task(3, ptr(2), 0)}

	roots, err := NewIndex(tasks).Roots()
	require.NoError(t, err)
	assert.Equal(t, []uint{1}, ids(roots))
}

func TestOrphans(t *testing.T) {
	tasks := []model.Task{task(1, nil, 0), task(2, ptr(1), 0), task(3, ptr(99), 0), task(4, ptr(3), 0)}

	ix := NewIndex(tasks)
	orphans := ix.Orphans()
	require.Len(t, orphans, 1)
	assert.Equal(t, uint(3), orphans[0].ID)

	n, err := ix.Build(orphans[0])
	require.NoError(t, err)
	assert.Equal(t, []uint{4}, ids(n.Subtasks))
}

func TestDescendant(t *testing.T) {
	ix := NewIndex([]model.Task{task(1, nil, 0), task(2, ptr(1), 0), task(3, ptr(2), 0), task(4, nil, 0)})

	assert.True(t, ix.Descendant(1, 1))
	assert.True(t, ix.Descendant(1, 3))
	assert.False(t, ix.Descendant(3, 1))
	assert.False(t, ix.Descendant(1, 4))
}

func TestTopUrgent(t *testing.T) {
	tasks := []model.Task{task(1, nil, 50), task(2, nil, 90), task(3, nil, 10), task(4, nil, 70)}

	top, err := TopUrgent(tasks, 2)
	require.NoError(t, err)

	assert.Equal(t, []uint{2, 4}, ids(top))
	assert.Equal(t, 90, top[0].PriorityScore)
	assert.Equal(t, 70, top[1].PriorityScore)
}

func TestTopUrgent_DefaultLimitAndNestedResults(t *testing.T) {
	tasks := []model.Task{
		task(1, nil, 10),
		task(2, ptr(1), 80),
		task(3, ptr(2), 60),
		task(4, nil, 5),
		task(5, nil, 1),
		task(6, nil, 0),
		task(7, nil, 0),
	}

	top, err := TopUrgent(tasks, 0)
	require.NoError(t, err)

	require.Len(t, top, DefaultTopN)
	assert.Equal(t, []uint{2, 3, 1, 4, 5}, ids(top))
	assert.Equal(t, []uint{3}, ids(top[0].Subtasks))
	assert.Equal(t, []uint{2}, ids(top[2].Subtasks))
}

func TestTopUrgent_DoesNotReorderInput(t *testing.T) {
	tasks := []model.Task{task(1, nil, 1), task(2, nil, 2)}

	_, err := TopUrgent(tasks, 5)
	require.NoError(t, err)
	assert.Equal(t, uint(1), tasks[0].ID)
}
