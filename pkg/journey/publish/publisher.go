// Package publish stores generated artifacts in the configured object
// stores and optionally pins the source grid and a metadata record.
package publish

import (
	"context"
	"fmt"

	"github.com/alitto/pond/v2"

	"github.com/NethermindEth/gojourney/pkg/journey/art"
	"github.com/NethermindEth/gojourney/pkg/journey/filestorage"
	"github.com/NethermindEth/gojourney/pkg/journey/grid"
)

const (
	DefaultConcurrency = 4
	jpegContentType    = "image/jpeg"
)

type Publisher struct {
	stores   []filestorage.ObjectStore
	uploader filestorage.Uploader
	pool     pond.Pool
}

type PublisherOptions struct {
	Stores      []filestorage.ObjectStore
	Uploader    filestorage.Uploader
	Concurrency int
}

// Publication lists where artifacts went. Locations[i] holds one entry per
// store for artifact i, in store order.
type Publication struct {
	Locations [][]string
	IpfsHash  string
}

func NewPublisher(opts PublisherOptions) *Publisher {
	if opts.Concurrency <= 0 {
		opts.Concurrency = DefaultConcurrency
	}

	return &Publisher{
		stores:   opts.Stores,
		uploader: opts.Uploader,
		pool:     pond.NewPool(opts.Concurrency),
	}
}

func (p *Publisher) Enabled() bool {
	return len(p.stores) > 0 || p.uploader != nil
}

// Publish writes artifact i as "<prefix><i>.jpg" to every store.
func (p *Publisher) Publish(ctx context.Context, prefix string, result *art.Result) (*Publication, error) {
	publication := &Publication{
		Locations: make([][]string, len(result.Artifacts)),
	}

	if len(p.stores) > 0 {
		group := p.pool.NewGroup()
		for i, artifact := range result.Artifacts {
			publication.Locations[i] = make([]string, len(p.stores))
			group.SubmitErr(func() error {
				return p.storeArtifact(ctx, prefix, artifact, publication.Locations[i])
			})
		}

		if err := group.Wait(); err != nil {
			return nil, err
		}
	}

	if p.uploader != nil {
		hash, err := p.pin(ctx, result)
		if err != nil {
			return nil, err
		}
		publication.IpfsHash = hash
	}

	return publication, nil
}

func (p *Publisher) storeArtifact(ctx context.Context, prefix string, artifact art.Artifact, locations []string) error {
	data, err := grid.JPEGBytes(artifact.Image)
	if err != nil {
		return err
	}

	key := fmt.Sprintf("%s%d.jpg", prefix, artifact.Index)
	for j, store := range p.stores {
		location, err := store.Put(ctx, key, data, jpegContentType)
		if err != nil {
			return fmt.Errorf("failed to store %s: %w", key, err)
		}
		locations[j] = location
	}

	return nil
}

func (p *Publisher) pin(ctx context.Context, result *art.Result) (string, error) {
	metadata := map[string]string{
		"name":        result.Prompt,
		"description": result.Prompt,
	}

	if result.SourceURL != "" {
		imageHash, err := p.uploader.UploadUrl(ctx, result.SourceURL)
		if err != nil {
			return "", fmt.Errorf("failed to upload image to ipfs: %v", err)
		}
		metadata["image"] = "ipfs://" + imageHash
	}

	metadataHash, err := p.uploader.UploadJson(ctx, metadata)
	if err != nil {
		return "", fmt.Errorf("failed to upload metadata to ipfs: %v", err)
	}

	return metadataHash, nil
}

func (p *Publisher) Close() {
	p.pool.StopAndWait()
}
