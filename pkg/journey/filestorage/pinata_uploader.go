package filestorage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zde37/pinata-go-sdk/pinata"
)

// PinataUploader pins through the Pinata API. The client takes no context,
// so a request is only abandoned before it is sent.
type PinataUploader struct {
	client *pinata.Client
}

var _ Uploader = (*PinataUploader)(nil)

func NewPinataUploader(jwtKey string) *PinataUploader {
	return &PinataUploader{
		client: pinata.New(pinata.NewAuthWithJWT(jwtKey)),
	}
}

func (u *PinataUploader) UploadUrl(ctx context.Context, fileUrl string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pinned, err := u.client.PinURL(fileUrl, nil)
	if err != nil {
		return "", fmt.Errorf("failed to pin %s: %w", fileUrl, err)
	}

	slog.Debug("pinned url", "url", fileUrl, "ipfsHash", pinned.IpfsHash)

	return pinned.IpfsHash, nil
}

func (u *PinataUploader) UploadJson(ctx context.Context, json interface{}) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	pinned, err := u.client.PinJSON(json, nil)
	if err != nil {
		return "", fmt.Errorf("failed to pin metadata: %w", err)
	}

	slog.Debug("pinned metadata", "ipfsHash", pinned.IpfsHash)

	return pinned.IpfsHash, nil
}
