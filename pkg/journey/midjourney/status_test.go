package midjourney_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/gojourney/pkg/journey/art"
	"github.com/NethermindEth/gojourney/pkg/journey/midjourney"
)

func TestParseStatus(t *testing.T) {
	tests := []struct {
		name       string
		text       string
		wantUser   string
		wantStatus string
		wantErr    error
	}{
		{
			name:       "waiting",
			text:       "**a cat --ar 16:9** - @someone (Waiting to start)",
			wantUser:   "someone",
			wantStatus: "Waiting to start",
		},
		{
			name:       "progress",
			text:       "**a cat** - @someone (31%) (fast)",
			wantUser:   "someone",
			wantStatus: "31%",
		},
		{
			name:    "banned",
			text:    "Banned prompt detected\nSorry! Our AI moderator thinks this prompt is probably against our community standards.",
			wantErr: art.ErrBannedPrompt,
		},
		{
			name:    "banned lower case",
			text:    "this word is banned",
			wantErr: art.ErrBannedPrompt,
		},
		{
			name:    "unexpected",
			text:    "Invalid parameter",
			wantErr: art.ErrUnexpectedStatus,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := midjourney.ParseStatus(tt.text)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr), "got %v", err)
				assert.Nil(t, status)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, status.User)
			assert.Equal(t, tt.wantStatus, status.Status)
		})
	}
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "idle", midjourney.StateIdle.String())
	assert.Equal(t, "authenticating", midjourney.StateAuthenticating.String())
	assert.Equal(t, "awaiting-reply", midjourney.StateAwaitingReply.String())
	assert.Equal(t, "complete", midjourney.StateComplete.String())
	assert.Equal(t, "failed", midjourney.StateFailed.String())
	assert.Equal(t, "unknown", midjourney.State(42).String())
}
