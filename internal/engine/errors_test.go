package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	tests := []struct {
		err  error
		name string
		want ErrorKind
	}{
		{name: "nil", err: nil, want: KindNone},
		{name: "plain error", err: errors.New("boom"), want: KindIOFailure},
		{name: "permission", err: fmt.Errorf("open: %w", fs.ErrPermission), want: KindPermissionDenied},
		{name: "rename sentinel", err: fmt.Errorf("x: %w", ErrRenameCollision), want: KindRenameCollision},
		{name: "snapshot sentinel", err: ErrSnapshotPartial, want: KindSnapshotPartial},
		{name: "safety sentinel", err: ErrSafetyRejection, want: KindSafetyRejection},
		{name: "stage io", err: stageErr("overwrite", "/x", errors.New("disk full")), want: KindIOFailure},
		{name: "stage permission", err: stageErr("open", "/x", fs.ErrPermission), want: KindPermissionDenied},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestStageError(t *testing.T) {
	cause := errors.New("disk full")
	err := stageErr("overwrite", "/tmp/x", cause)

	assert.ErrorIs(t, err, cause)
	assert.ErrorIs(t, err, ErrIOFailure)
	assert.NotErrorIs(t, err, ErrPermissionDenied)
	assert.Equal(t, "overwrite /tmp/x: disk full", err.Error())

	assert.NoError(t, stageErr("overwrite", "/tmp/x", nil))
}

func TestErrorKindString(t *testing.T) {
	assert.Equal(t, "permission denied", KindPermissionDenied.String())
	assert.Equal(t, "none", KindNone.String())
	assert.Equal(t, "unknown", ErrorKind(42).String())
}
