package errors

import "net/http"

var ErrEmailTaken = &Exception{
	Message:    "Email already registered",
	StatusCode: http.StatusBadRequest,
}

var ErrInvalidCredentials = &Exception{
	Message:    "Incorrect email or password",
	StatusCode: http.StatusUnauthorized,
}

var ErrUnauthorized = &Exception{
	Message:    "Could not validate credentials",
	StatusCode: http.StatusUnauthorized,
}
