package dto

import "time"

type CreateTaskRequest struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=4000"`
	DueDate     *time.Time `json:"due_date"`
	Weight      *int       `json:"weight" validate:"omitempty,min=1"`
	ParentID    *uint      `json:"parent_id" validate:"omitempty,min=1"`
}

// UpdateTaskRequest applies only the fields present in the body. An explicit
// null clears description, due_date or parent_id.
type UpdateTaskRequest struct {
	Title       Optional[string]    `json:"title"`
	Description Optional[string]    `json:"description"`
	DueDate     Optional[time.Time] `json:"due_date"`
	Weight      Optional[int]       `json:"weight"`
	ParentID    Optional[uint]      `json:"parent_id"`
}

type TaskPatch struct {
	Title       Optional[string]
	Description Optional[string]
	DueDate     Optional[time.Time]
	Weight      Optional[int]
	ParentID    Optional[uint]
}

func (r UpdateTaskRequest) Patch() TaskPatch {
	return TaskPatch(r)
}

type TaskInput struct {
	Title       string
	Description *string
	DueDate     *time.Time
	Weight      int
	ParentID    *uint
}

func (r CreateTaskRequest) Input() TaskInput {
	in := TaskInput{
		Title:       r.Title,
		Description: r.Description,
		DueDate:     r.DueDate,
		Weight:      1,
		ParentID:    r.ParentID,
	}
	if r.Weight != nil {
		in.Weight = *r.Weight
	}
	return in
}

type DeleteTaskResponse struct {
	OK bool `json:"ok"`
}
