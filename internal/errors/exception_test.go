package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusNotFound, StatusCode(ErrTaskNotFound))
	assert.Equal(t, http.StatusNotFound, StatusCode(fmt.Errorf("load task 4: %w", ErrTaskNotFound)))
	assert.Equal(t, http.StatusInternalServerError, StatusCode(errors.New("disk full")))
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Incorrect email or password", Message(fmt.Errorf("login: %w", ErrInvalidCredentials), "x"))
	assert.Equal(t, "failed", Message(errors.New("driver: bad conn"), "failed"))
}
