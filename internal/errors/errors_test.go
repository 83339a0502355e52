package errors_test

import (
	"errors"
	"net/http"
	"testing"

	cserrs "github.com/Yathushan/coldsweat/internal/errors"
	"github.com/stretchr/testify/assert"
)

func TestEConstructor(t *testing.T) {
	got := cserrs.E(
		"something went wrong",
		cserrs.Detail{Field: "name", Error: "was bad"},
		http.StatusBadRequest,
	)
	want := &cserrs.Error{
		Err: errors.New("something went wrong"),
		Details: []cserrs.Detail{
			{Field: "name", Error: "was bad"},
		},
		Status: http.StatusBadRequest,
	}

	assert.Equal(t, want, got)
}

func TestUnwrap(t *testing.T) {
	sentinel := errors.New("no such thing")
	err := cserrs.E(http.StatusNotFound, sentinel)

	assert.True(t, errors.Is(err, sentinel))
}
