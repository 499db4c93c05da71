package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateTaskRequest_DistinguishesAbsentAndNull(t *testing.T) {
	var req UpdateTaskRequest
	require.NoError(t, json.Unmarshal([]byte(`{"title":"new","due_date":null,"weight":3}`), &req))

	assert.True(t, req.Title.Set)
	assert.Equal(t, "new", *req.Title.Value)

	assert.True(t, req.DueDate.Set)
	assert.Nil(t, req.DueDate.Value)

	assert.True(t, req.Weight.Set)
	assert.Equal(t, 3, *req.Weight.Value)

	assert.False(t, req.Description.Set)
	assert.False(t, req.ParentID.Set)
}

func TestOptional_RejectsWrongType(t *testing.T) {
	var req UpdateTaskRequest
	assert.Error(t, json.Unmarshal([]byte(`{"weight":"heavy"}`), &req))
}

func TestCreateTaskRequest_DefaultWeight(t *testing.T) {
	in := CreateTaskRequest{Title: "a"}.Input()
	assert.Equal(t, 1, in.Weight)

	w := 4
	in = CreateTaskRequest{Title: "a", Weight: &w}.Input()
	assert.Equal(t, 4, in.Weight)
}
