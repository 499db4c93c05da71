package errors

import "net/http"

var ErrTaskNotFound = &Exception{
	Message:    "Task not found",
	StatusCode: http.StatusNotFound,
}

var ErrTaskTitleRequired = &Exception{
	Message:    "title is required",
	StatusCode: http.StatusBadRequest,
}

var ErrTaskIDRequired = &Exception{
	Message:    "task id is required",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidLimit = &Exception{
	Message:    "limit must be positive",
	StatusCode: http.StatusBadRequest,
}

var ErrParentNotFound = &Exception{
	Message:    "parent task not found",
	StatusCode: http.StatusUnprocessableEntity,
}

var ErrParentCycle = &Exception{
	Message:    "a task cannot be moved under itself or one of its subtasks",
	StatusCode: http.StatusUnprocessableEntity,
}

var ErrCyclicHierarchy = &Exception{
	Message:    "stored task hierarchy contains a cycle",
	StatusCode: http.StatusConflict,
}

var ErrOptimisticLock = &Exception{
	Message:    "task was modified concurrently, retry the request",
	StatusCode: http.StatusConflict,
}
