package publish_test

import (
	"context"
	"fmt"
	"image/color"
	"sync"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/NethermindEth/gojourney/pkg/journey/art"
	"github.com/NethermindEth/gojourney/pkg/journey/filestorage"
	"github.com/NethermindEth/gojourney/pkg/journey/publish"
)

type mockStore struct {
	name string
	mu   sync.Mutex
	keys []string
	put  func(key string) error
}

func (m *mockStore) Put(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.put != nil {
		if err := m.put(key); err != nil {
			return "", err
		}
	}
	m.keys = append(m.keys, key)
	return m.name + ":" + key, nil
}

type mockUploader struct {
	uploadUrl  func(ctx context.Context, url string) (string, error)
	uploadJson func(ctx context.Context, json interface{}) (string, error)
}

func (m *mockUploader) UploadUrl(ctx context.Context, url string) (string, error) {
	return m.uploadUrl(ctx, url)
}

func (m *mockUploader) UploadJson(ctx context.Context, json interface{}) (string, error) {
	return m.uploadJson(ctx, json)
}

func testResult(n int) *art.Result {
	result := &art.Result{Prompt: "a cat", SourceURL: "https://cdn.example.com/grid.png"}
	for i := 0; i < n; i++ {
		result.Artifacts = append(result.Artifacts, art.Artifact{
			Index: i,
			Image: imaging.New(4, 4, color.NRGBA{B: 255, A: 255}),
		})
	}
	return result
}

func TestPublisher_Publish(t *testing.T) {
	local := &mockStore{name: "local"}
	remote := &mockStore{name: "s3"}

	publisher := publish.NewPublisher(publish.PublisherOptions{
		Stores: []filestorage.ObjectStore{local, remote},
		Uploader: &mockUploader{
			uploadUrl: func(ctx context.Context, url string) (string, error) {
				require.Equal(t, "https://cdn.example.com/grid.png", url)
				return "grid-hash", nil
			},
			uploadJson: func(ctx context.Context, json interface{}) (string, error) {
				require.Equal(t, map[string]string{
					"name":        "a cat",
					"description": "a cat",
					"image":       "ipfs://grid-hash",
				}, json)
				return "metadata-hash", nil
			},
		},
	})
	defer publisher.Close()
	assert.True(t, publisher.Enabled())

	publication, err := publisher.Publish(context.Background(), "out/cat", testResult(3))
	require.NoError(t, err)

	assert.Equal(t, "metadata-hash", publication.IpfsHash)
	require.Len(t, publication.Locations, 3)
	for i, locations := range publication.Locations {
		assert.Equal(t, []string{
			fmt.Sprintf("local:out/cat%d.jpg", i),
			fmt.Sprintf("s3:out/cat%d.jpg", i),
		}, locations)
	}
	assert.ElementsMatch(t, []string{"out/cat0.jpg", "out/cat1.jpg", "out/cat2.jpg"}, local.keys)
}

func TestPublisher_StoreError(t *testing.T) {
	store := &mockStore{
		name: "broken",
		put: func(key string) error {
			if key == "x1.jpg" {
				return assert.AnError
			}
			return nil
		},
	}

	publisher := publish.NewPublisher(publish.PublisherOptions{Stores: []filestorage.ObjectStore{store}})
	defer publisher.Close()

	_, err := publisher.Publish(context.Background(), "x", testResult(2))
	assert.ErrorIs(t, err, assert.AnError)
}

func TestPublisher_NoSourceUrl(t *testing.T) {
	publisher := publish.NewPublisher(publish.PublisherOptions{
		Uploader: &mockUploader{
			uploadJson: func(ctx context.Context, json interface{}) (string, error) {
				assert.NotContains(t, json, "image")
				return "metadata-hash", nil
			},
		},
	})
	defer publisher.Close()

	result := testResult(1)
	result.SourceURL = ""

	publication, err := publisher.Publish(context.Background(), "x", result)
	require.NoError(t, err)
	assert.Equal(t, "metadata-hash", publication.IpfsHash)
}

func TestPublisher_Disabled(t *testing.T) {
	publisher := publish.NewPublisher(publish.PublisherOptions{})
	defer publisher.Close()
	assert.False(t, publisher.Enabled())
}
