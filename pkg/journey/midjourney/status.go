package midjourney

import (
	"regexp"
	"strings"

	"github.com/NethermindEth/gojourney/pkg/journey/art"
)

var statusPattern = regexp.MustCompile(`@(\S+) \(([^()]+)\)`)

type Status struct {
	User   string
	Status string
}

// ParseStatus classifies the text of the bot's first reply to a prompt.
// The bot answers either with "... @user (Waiting to start)" style progress
// or with a moderation notice.
func ParseStatus(text string) (*Status, error) {
	if strings.Contains(strings.ToLower(text), "banned") {
		return nil, art.NewError(art.ErrBannedPrompt, "status", strings.TrimSpace(text))
	}

	match := statusPattern.FindStringSubmatch(text)
	if match == nil {
		return nil, art.NewError(art.ErrUnexpectedStatus, "status", strings.TrimSpace(text))
	}

	return &Status{User: match[1], Status: match[2]}, nil
}
