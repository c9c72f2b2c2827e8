package art_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NethermindEth/gojourney/pkg/journey/art"
)

func TestError_Is(t *testing.T) {
	cause := errors.New("element not found")
	err := art.Wrap(art.ErrNavigation, "navigate", cause)

	assert.True(t, errors.Is(err, art.ErrNavigation))
	assert.True(t, errors.Is(err, cause))
	assert.False(t, errors.Is(err, art.ErrTimeout))
	assert.Equal(t, "navigate: navigation failed: element not found", err.Error())

	var artErr *art.Error
	assert.True(t, errors.As(fmt.Errorf("outer: %w", err), &artErr))
	assert.Equal(t, "navigate", artErr.Op)
}

func TestWrap_KeepsExistingKind(t *testing.T) {
	inner := art.NewError(art.ErrAuthentication, "login", "still on login page")
	err := art.Wrap(art.ErrNavigation, "navigate", fmt.Errorf("step failed: %w", inner))

	assert.True(t, errors.Is(err, art.ErrAuthentication))
	assert.False(t, errors.Is(err, art.ErrNavigation))
	assert.Nil(t, art.Wrap(art.ErrNavigation, "navigate", nil))
}

func TestKindName(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{art.NewError(art.ErrInvalidRequest, "", ""), "invalid_request"},
		{art.NewError(art.ErrAuthentication, "", ""), "authentication"},
		{art.NewError(art.ErrNavigation, "", ""), "navigation"},
		{art.NewError(art.ErrTimeout, "", ""), "timeout"},
		{art.NewError(art.ErrNoImageFound, "", ""), "no_image_found"},
		{art.NewError(art.ErrBannedPrompt, "", ""), "banned_prompt"},
		{art.NewError(art.ErrUnexpectedStatus, "", ""), "unexpected_status"},
		{errors.New("boom"), "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, art.KindName(tt.err))
		})
	}
}
