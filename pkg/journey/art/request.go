package art

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	"strings"
	"unicode"
)

const (
	MinImages          = 1
	MaxImages          = 4
	DefaultAspectRatio = "16:9"
)

type Request struct {
	Prompt      string `json:"prompt"`
	NumImages   int    `json:"num_images"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

type Artifact struct {
	Index     int
	SourceURL string
	Image     image.Image
}

type Result struct {
	Prompt    string
	SourceURL string
	Cached    bool
	Artifacts []Artifact
}

func (r Request) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return NewError(ErrInvalidRequest, "validate", "prompt is empty")
	}
	if r.NumImages < MinImages || r.NumImages > MaxImages {
		return Errorf(ErrInvalidRequest, "validate", "num_images must be between %d and %d, got %d", MinImages, MaxImages, r.NumImages)
	}
	if strings.ContainsFunc(r.AspectRatio, unicode.IsSpace) {
		return Errorf(ErrInvalidRequest, "validate", "aspect ratio %q contains whitespace", r.AspectRatio)
	}
	return nil
}

func (r Request) WithDefaults(aspectRatio string) Request {
	if r.AspectRatio == "" {
		r.AspectRatio = aspectRatio
	}
	if r.AspectRatio == "" {
		r.AspectRatio = DefaultAspectRatio
	}
	return r
}

// Command renders the request in the bot's slash command syntax. Newlines
// would submit the message early, so they are folded into spaces.
func (r Request) Command() string {
	prompt := strings.Join(strings.Fields(r.Prompt), " ")
	return fmt.Sprintf("/imagine prompt: %s --ar %s", prompt, r.AspectRatio)
}

func (r Request) CacheKey() string {
	sum := md5.Sum([]byte(fmt.Sprintf("%s_%s", r.Prompt, r.AspectRatio)))
	return hex.EncodeToString(sum[:])
}
