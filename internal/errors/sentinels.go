package errors

import "net/http"

var ErrTitleRequired = &Exception{
	Message:    "title cannot be empty",
	StatusCode: http.StatusBadRequest,
}

var ErrTaskNotFound = &Exception{
	Message:    "task not found",
	StatusCode: http.StatusNotFound,
}

var ErrTaskIDRequired = &Exception{
	Message:    "task id is required",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidJSON = &Exception{
	Message:    "invalid JSON payload",
	StatusCode: http.StatusBadRequest,
}

var ErrPersistence = &Exception{
	Message:    "failed to save tasks",
	StatusCode: http.StatusInternalServerError,
}

var ErrImport = &Exception{
	Message:    "failed to import tasks",
	StatusCode: http.StatusBadGateway,
}
