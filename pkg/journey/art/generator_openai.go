package art

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sashabaranov/go-openai"

	"github.com/NethermindEth/gojourney/pkg/journey/grid"
)

// DefaultOpenAiModel only accepts one image per call.
const DefaultOpenAiModel = openai.CreateImageModelDallE3

type OpenAiGenerator struct {
	apiKey string
	model  string
	client *openai.Client
}

var _ Generator = (*OpenAiGenerator)(nil)

func NewOpenAiGenerator(apiKey string, model string) *OpenAiGenerator {
	return NewOpenAiGeneratorWithBaseUrl(apiKey, model, "")
}

func NewOpenAiGeneratorWithBaseUrl(apiKey string, model string, baseUrl string) *OpenAiGenerator {
	config := openai.DefaultConfig(apiKey)
	if baseUrl != "" {
		config.BaseURL = baseUrl
	}
	if model == "" {
		model = DefaultOpenAiModel
	}

	return &OpenAiGenerator{
		apiKey: apiKey,
		model:  model,
		client: openai.NewClientWithConfig(config),
	}
}

func (g *OpenAiGenerator) Generate(ctx context.Context, req Request) (*Result, error) {
	req = req.WithDefaults("")
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if g.apiKey == "" {
		return nil, NewError(ErrAuthentication, "openai", "api key is not set")
	}

	batch := req.NumImages
	if g.model == openai.CreateImageModelDallE3 {
		batch = 1
	}

	result := &Result{Prompt: req.Prompt}
	for len(result.Artifacts) < req.NumImages {
		n := min(batch, req.NumImages-len(result.Artifacts))
		resp, err := g.client.CreateImage(ctx, openai.ImageRequest{
			Prompt:         req.Prompt,
			Size:           sizeForAspectRatio(req.AspectRatio),
			ResponseFormat: openai.CreateImageResponseFormatB64JSON,
			N:              n,
			Model:          g.model,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create image: %w", err)
		}

		if len(resp.Data) == 0 {
			return nil, NewError(ErrNoImageFound, "openai", "no image data returned")
		}

		for _, data := range resp.Data[:min(n, len(resp.Data))] {
			i := len(result.Artifacts)
			raw, err := base64.StdEncoding.DecodeString(data.B64JSON)
			if err != nil {
				return nil, fmt.Errorf("failed to decode image %d: %w", i, err)
			}

			img, err := grid.DecodeBytes(raw)
			if err != nil {
				return nil, err
			}

			result.Artifacts = append(result.Artifacts, Artifact{Index: i, Image: img})
		}
	}

	return result, nil
}

func sizeForAspectRatio(aspectRatio string) string {
	switch aspectRatio {
	case "16:9", "3:2", "7:4":
		return openai.CreateImageSize1792x1024
	case "9:16", "2:3", "4:7":
		return openai.CreateImageSize1024x1792
	default:
		return openai.CreateImageSize1024x1024
	}
}
