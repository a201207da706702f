package rserr_test

import (
	"errors"
	"testing"

	"github.com/joeycumines/run-stars/internal/rserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorUnwrap(t *testing.T) {
	cause := errors.New("boom")
	err := rserr.New(rserr.KindAccess, "list", "/tmp/x", cause)

	assert.Contains(t, err.Error(), "/tmp/x")
	assert.Contains(t, err.Error(), "boom")
	assert.ErrorIs(t, err, cause)

	var target *rserr.Error
	require.ErrorAs(t, err, &target)
	assert.Equal(t, rserr.KindAccess, target.Kind)
}

func TestShapeError(t *testing.T) {
	err := rserr.NewShape(rserr.ShapeNotDirectory, "/tmp/x")
	assert.Contains(t, err.Error(), "not a directory")
}
