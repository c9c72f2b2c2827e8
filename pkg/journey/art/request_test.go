package art_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/NethermindEth/gojourney/pkg/journey/art"
)

func TestRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     art.Request
		wantErr bool
	}{
		{name: "one image", req: art.Request{Prompt: "a cat", NumImages: 1}},
		{name: "four images", req: art.Request{Prompt: "a cat", NumImages: 4, AspectRatio: "1:1"}},
		{name: "zero images", req: art.Request{Prompt: "a cat", NumImages: 0}, wantErr: true},
		{name: "five images", req: art.Request{Prompt: "a cat", NumImages: 5}, wantErr: true},
		{name: "negative images", req: art.Request{Prompt: "a cat", NumImages: -1}, wantErr: true},
		{name: "empty prompt", req: art.Request{Prompt: "", NumImages: 1}, wantErr: true},
		{name: "blank prompt", req: art.Request{Prompt: " \t ", NumImages: 1}, wantErr: true},
		{name: "aspect ratio with space", req: art.Request{Prompt: "a cat", NumImages: 1, AspectRatio: "16:9 --v 6"}, wantErr: true},
		{name: "aspect ratio with tab", req: art.Request{Prompt: "a cat", NumImages: 1, AspectRatio: "16:9\t--v"}, wantErr: true},
		{name: "aspect ratio with carriage return", req: art.Request{Prompt: "a cat", NumImages: 1, AspectRatio: "16:9\r"}, wantErr: true},
		{name: "aspect ratio with newline", req: art.Request{Prompt: "a cat", NumImages: 1, AspectRatio: "1:1\n--no cats"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr {
				assert.True(t, errors.Is(err, art.ErrInvalidRequest), "got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequest_Command(t *testing.T) {
	req := art.Request{Prompt: "a cat\non a  mat", NumImages: 2}.WithDefaults("")
	assert.Equal(t, "/imagine prompt: a cat on a mat --ar 16:9", req.Command())

	req = art.Request{Prompt: "a dog", NumImages: 2}.WithDefaults("1:1")
	assert.Equal(t, "/imagine prompt: a dog --ar 1:1", req.Command())

	req = art.Request{Prompt: "a dog", NumImages: 2, AspectRatio: "3:2"}.WithDefaults("1:1")
	assert.Equal(t, "3:2", req.AspectRatio)
}

func TestRequest_CacheKey(t *testing.T) {
	a := art.Request{Prompt: "a cat", NumImages: 1, AspectRatio: "16:9"}
	b := art.Request{Prompt: "a cat", NumImages: 4, AspectRatio: "16:9"}
	c := art.Request{Prompt: "a cat", NumImages: 1, AspectRatio: "1:1"}

	assert.Equal(t, a.CacheKey(), b.CacheKey())
	assert.NotEqual(t, a.CacheKey(), c.CacheKey())
	assert.Len(t, a.CacheKey(), 32)
}
