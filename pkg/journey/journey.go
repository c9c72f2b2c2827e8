package journey

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/NethermindEth/gojourney/pkg/journey/art"
	"github.com/NethermindEth/gojourney/pkg/journey/cache"
	"github.com/NethermindEth/gojourney/pkg/journey/driver"
	"github.com/NethermindEth/gojourney/pkg/journey/filestorage"
	"github.com/NethermindEth/gojourney/pkg/journey/midjourney"
	"github.com/NethermindEth/gojourney/pkg/journey/publish"
	"github.com/NethermindEth/gojourney/pkg/journey/queue"
	"github.com/NethermindEth/gojourney/pkg/journey/setup"
)

type ResultProducer interface {
	PublishResult(ctx context.Context, result *queue.ResultMessage) error
}

type Journey struct {
	generator art.Generator
	publisher *publish.Publisher
	consumer  *queue.Consumer
	producer  ResultProducer
	apiRouter *gin.Engine

	apiIpPort string
	closers   []io.Closer
}

type JourneyConfig struct {
	Generator          art.Generator
	Stores             []filestorage.ObjectStore
	Uploader           filestorage.Uploader
	PublishConcurrency int
	Reader             queue.MessageReader
	Producer           ResultProducer

	ApiIpPort string
	// Closers are released by Close, after the consumer and producer.
	Closers []io.Closer
}

type Generation struct {
	RequestID   string
	Result      *art.Result
	Publication *publish.Publication
}

func NewJourney(config *JourneyConfig) (*Journey, error) {
	if config == nil {
		return nil, errors.New("config is nil")
	}
	if config.Generator == nil {
		return nil, errors.New("generator is nil")
	}

	journey := &Journey{
		generator: config.Generator,
		publisher: publish.NewPublisher(publish.PublisherOptions{
			Stores:      config.Stores,
			Uploader:    config.Uploader,
			Concurrency: config.PublishConcurrency,
		}),
		producer:  config.Producer,
		apiIpPort: config.ApiIpPort,
		closers:   config.Closers,
	}

	if config.Reader != nil {
		journey.consumer = queue.NewConsumer(config.Reader, journey)
	}

	journey.apiRouter = journey.generateRouter()

	return journey, nil
}

func NewJourneyConfigFromSetupResult(ctx context.Context, setupResult *setup.SetupResult) (*JourneyConfig, error) {
	if setupResult == nil {
		return nil, errors.New("setup result is nil")
	}

	config := &JourneyConfig{
		PublishConcurrency: setupResult.PublishConcurrency,
		ApiIpPort:          setupResult.ApiIpPort,
	}

	switch setupResult.ImageBackend {
	case setup.BackendOpenAi:
		config.Generator = art.NewOpenAiGenerator(setupResult.OpenAiApiKey, setupResult.OpenAiModel)
	default:
		store, err := newCacheStore(ctx, setupResult)
		if err != nil {
			return nil, err
		}
		if closer, ok := store.(io.Closer); ok {
			config.Closers = append(config.Closers, closer)
		}

		automator, err := midjourney.NewAutomator(&midjourney.AutomatorConfig{
			Driver: driver.NewChromeDriver(driver.ChromeOptions{
				LoginUrl:    setupResult.DiscordLoginUrl,
				Headless:    setupResult.BrowserHeadless,
				StepTimeout: setupResult.StepTimeout,
				ExecPath:    setupResult.BrowserExecPath,
			}),
			Credentials: midjourney.Credentials{
				Email:      setupResult.DiscordEmail,
				Password:   setupResult.DiscordPassword,
				ChannelUrl: setupResult.DiscordChannelUrl,
			},
			HttpClient:          http.DefaultClient,
			Cache:               store,
			PollInterval:        setupResult.PollInterval,
			ReplyTimeout:        setupResult.ReplyTimeout,
			FetchTimeout:        setupResult.FetchTimeout,
			DefaultAspectRatio:  setupResult.DefaultAspectRatio,
			SeparateAttachments: setupResult.SeparateAttachments,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create automator: %w", err)
		}
		config.Generator = automator
		config.Closers = append(config.Closers, automator)
	}

	if setupResult.OutputDir != "" {
		config.Stores = append(config.Stores, filestorage.NewLocalStore(setupResult.OutputDir))
	}

	if setupResult.S3Bucket != "" {
		s3Store, err := filestorage.NewS3Store(ctx, filestorage.S3Options{
			Endpoint:  setupResult.S3Endpoint,
			Region:    setupResult.S3Region,
			Bucket:    setupResult.S3Bucket,
			AccessKey: setupResult.S3AccessKey,
			SecretKey: setupResult.S3SecretKey,
			PublicUrl: setupResult.S3PublicUrl,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create s3 store: %w", err)
		}
		config.Stores = append(config.Stores, s3Store)
	}

	if setupResult.PinataJwtKey != "" {
		config.Uploader = filestorage.NewPinataUploader(setupResult.PinataJwtKey)
	}

	return config, nil
}

// WithQueue attaches the kafka reader and producer used by the worker.
func WithQueue(config *JourneyConfig, setupResult *setup.SetupResult) error {
	if len(setupResult.KafkaBrokers) == 0 {
		return errors.New("KAFKA_BROKERS is required")
	}

	config.Reader = queue.NewReader(queue.ConsumerOptions{
		Brokers: setupResult.KafkaBrokers,
		Topic:   setupResult.KafkaTopicPrompts,
		GroupID: setupResult.KafkaGroupId,
	})
	config.Producer = queue.NewProducer(setupResult.KafkaBrokers, setupResult.KafkaTopicResults)

	return nil
}

func newCacheStore(ctx context.Context, setupResult *setup.SetupResult) (cache.Store, error) {
	switch setupResult.CacheBackend {
	case setup.CacheMemory:
		return cache.NewMemoryStore(cache.DefaultMemorySize, setupResult.CacheTtl), nil
	case setup.CacheFile:
		var opts []cache.FileStoreOption
		if setupResult.CacheSealingKey != "" {
			sealer, err := cache.NewSealer(setupResult.CacheSealingKey)
			if err != nil {
				return nil, fmt.Errorf("failed to create cache sealer: %w", err)
			}
			opts = append(opts, cache.WithSealer(sealer))
		}
		store, err := cache.NewFileStore(setupResult.CacheDir, setupResult.CacheTtl, opts...)
		if err != nil {
			return nil, fmt.Errorf("failed to create file cache: %w", err)
		}
		return store, nil
	case setup.CacheRedis:
		store, err := cache.NewRedisStoreFromUrl(ctx, setupResult.RedisUrl, setupResult.CacheTtl)
		if err != nil {
			return nil, fmt.Errorf("failed to create redis cache: %w", err)
		}
		return store, nil
	default:
		return nil, nil
	}
}

// Imagine generates req under a fresh request id and publishes the
// artifacts to the configured stores.
func (j *Journey) Imagine(ctx context.Context, req art.Request) (*Generation, error) {
	return j.imagine(ctx, uuid.NewString(), req)
}

func (j *Journey) imagine(ctx context.Context, requestId string, req art.Request) (*Generation, error) {
	slog.Info("generating", "requestId", requestId, "prompt", req.Prompt, "numImages", req.NumImages)

	result, err := j.generator.Generate(ctx, req)
	if err != nil {
		return nil, err
	}

	generation := &Generation{
		RequestID: requestId,
		Result:    result,
	}

	if j.publisher.Enabled() {
		publication, err := j.publisher.Publish(ctx, requestId+"/", result)
		if err != nil {
			return nil, fmt.Errorf("failed to publish artifacts: %w", err)
		}
		generation.Publication = publication
	}

	slog.Info("generation complete", "requestId", requestId, "artifacts", len(result.Artifacts), "cached", result.Cached)

	return generation, nil
}

// State reports the automator state, or idle for generators without one.
func (j *Journey) State() string {
	if reporter, ok := j.generator.(interface{ State() midjourney.State }); ok {
		return reporter.State().String()
	}
	return midjourney.StateIdle.String()
}

// Start serves the api and, with a queue attached, the worker. It returns
// once the server has drained.
func (j *Journey) Start(ctx context.Context) error {
	serverCtx, stopServer := context.WithCancel(ctx)
	defer stopServer()

	serverDone, err := j.StartServer(serverCtx)
	if err != nil {
		return err
	}

	if j.consumer == nil {
		<-ctx.Done()
		<-serverDone
		return ctx.Err()
	}

	err = j.StartWorker(ctx)
	stopServer()
	<-serverDone

	return err
}

func (j *Journey) ApiIpPort() string {
	return j.apiIpPort
}

func (j *Journey) Close() error {
	var errs []error

	j.publisher.Close()

	if j.consumer != nil {
		errs = append(errs, j.consumer.Close())
	}
	if closer, ok := j.producer.(io.Closer); ok {
		errs = append(errs, closer.Close())
	}
	for _, closer := range j.closers {
		errs = append(errs, closer.Close())
	}

	return errors.Join(errs...)
}
