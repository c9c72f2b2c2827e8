package queue

const (
	StatusSucceeded = "succeeded"
	StatusFailed    = "failed"
)

type PromptMessage struct {
	RequestID   string `json:"request_id"`
	Prompt      string `json:"prompt"`
	NumImages   int    `json:"num_images"`
	AspectRatio string `json:"aspect_ratio,omitempty"`
}

type ResultMessage struct {
	RequestID string     `json:"request_id"`
	Status    string     `json:"status"`
	Error     string     `json:"error,omitempty"`
	Kind      string     `json:"kind,omitempty"`
	SourceURL string     `json:"source_url,omitempty"`
	Cached    bool       `json:"cached,omitempty"`
	Locations [][]string `json:"locations,omitempty"`
	IpfsHash  string     `json:"ipfs_hash,omitempty"`
}
