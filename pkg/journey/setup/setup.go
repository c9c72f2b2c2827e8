package setup

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/NethermindEth/gojourney/pkg/journey/debug"
)

type SetupResult struct {
	DiscordEmail        string
	DiscordPassword     string
	DiscordChannelUrl   string
	DiscordLoginUrl     string
	ImageBackend        string
	OpenAiApiKey        string
	OpenAiModel         string
	BrowserHeadless     bool
	BrowserExecPath     string
	SeparateAttachments bool
	ReplyTimeout        time.Duration
	PollInterval        time.Duration
	FetchTimeout        time.Duration
	StepTimeout         time.Duration
	DefaultAspectRatio  string
	CacheBackend        string
	CacheDir            string
	CacheTtl            time.Duration
	CacheSealingKey     string
	RedisUrl            string
	OutputDir           string
	S3Endpoint          string
	S3Region            string
	S3Bucket            string
	S3AccessKey         string
	S3SecretKey         string
	S3PublicUrl         string
	PinataJwtKey        string
	PublishConcurrency  int
	ApiIpPort           string
	KafkaBrokers        []string
	KafkaTopicPrompts   string
	KafkaTopicResults   string
	KafkaGroupId        string
}

func Setup(ctx context.Context, file string) (*SetupResult, error) {
	config, err := NewConfig(file)
	if err != nil {
		return nil, fmt.Errorf("failed to get config: %v", err)
	}

	setupResult, err := generateSetup(config)
	if err != nil {
		return nil, fmt.Errorf("failed to generate setup: %v", err)
	}

	if debug.IsDebugShowSetup() {
		slog.InfoContext(ctx, "setup output", "setupOutput", setupResult)
	}

	return setupResult, nil
}

func generateSetup(config *Config) (*SetupResult, error) {
	durations := make([]time.Duration, 5)
	for i, value := range []string{config.ReplyTimeout, config.PollInterval, config.FetchTimeout, config.StepTimeout, config.CacheTtl} {
		d, err := parsePositiveDuration(value)
		if err != nil {
			return nil, err
		}
		durations[i] = d
	}

	headless := config.BrowserHeadless
	if debug.IsDebugHeadfulBrowser() {
		headless = false
	}

	return &SetupResult{
		DiscordEmail:        config.DiscordEmail,
		DiscordPassword:     config.DiscordPassword,
		DiscordChannelUrl:   config.DiscordChannelUrl,
		DiscordLoginUrl:     config.DiscordLoginUrl,
		ImageBackend:        config.ImageBackend,
		OpenAiApiKey:        config.OpenAiApiKey,
		OpenAiModel:         config.OpenAiModel,
		BrowserHeadless:     headless,
		BrowserExecPath:     config.BrowserExecPath,
		SeparateAttachments: config.SeparateAttachments,
		ReplyTimeout:        durations[0],
		PollInterval:        durations[1],
		FetchTimeout:        durations[2],
		StepTimeout:         durations[3],
		DefaultAspectRatio:  config.DefaultAspectRatio,
		CacheBackend:        config.CacheBackend,
		CacheDir:            config.CacheDir,
		CacheTtl:            durations[4],
		CacheSealingKey:     config.CacheSealingKey,
		RedisUrl:            config.RedisUrl,
		OutputDir:           config.OutputDir,
		S3Endpoint:          config.S3Endpoint,
		S3Region:            config.S3Region,
		S3Bucket:            config.S3Bucket,
		S3AccessKey:         config.S3AccessKey,
		S3SecretKey:         config.S3SecretKey,
		S3PublicUrl:         config.S3PublicUrl,
		PinataJwtKey:        config.PinataJwtKey,
		PublishConcurrency:  config.PublishConcurrency,
		ApiIpPort:           config.ApiIpPort,
		KafkaBrokers:        config.KafkaBrokers,
		KafkaTopicPrompts:   config.KafkaTopicPrompts,
		KafkaTopicResults:   config.KafkaTopicResults,
		KafkaGroupId:        config.KafkaGroupId,
	}, nil
}

func redact(secret string) string {
	if secret == "" {
		return ""
	}
	return "[redacted]"
}

func (s *SetupResult) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("discordEmail", s.DiscordEmail),
		slog.String("discordPassword", redact(s.DiscordPassword)),
		slog.String("discordChannelUrl", s.DiscordChannelUrl),
		slog.String("imageBackend", s.ImageBackend),
		slog.String("openAiApiKey", redact(s.OpenAiApiKey)),
		slog.String("openAiModel", s.OpenAiModel),
		slog.Bool("browserHeadless", s.BrowserHeadless),
		slog.Bool("separateAttachments", s.SeparateAttachments),
		slog.Duration("replyTimeout", s.ReplyTimeout),
		slog.Duration("pollInterval", s.PollInterval),
		slog.Duration("fetchTimeout", s.FetchTimeout),
		slog.String("cacheBackend", s.CacheBackend),
		slog.Duration("cacheTtl", s.CacheTtl),
		slog.String("cacheSealingKey", redact(s.CacheSealingKey)),
		slog.String("redisUrl", redact(s.RedisUrl)),
		slog.String("s3Bucket", s.S3Bucket),
		slog.String("s3SecretKey", redact(s.S3SecretKey)),
		slog.String("pinataJwtKey", redact(s.PinataJwtKey)),
		slog.String("apiIpPort", s.ApiIpPort),
		slog.Any("kafkaBrokers", s.KafkaBrokers),
	)
}
