package setup

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
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
	ReplyTimeout        string
	PollInterval        string
	FetchTimeout        string
	StepTimeout         string
	DefaultAspectRatio  string
	CacheBackend        string
	CacheDir            string
	CacheTtl            string
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

func newViper() *viper.Viper {
	v := viper.New()

	v.SetDefault(EnvDiscordLoginUrl, "https://discord.com/login")
	v.SetDefault(EnvImageBackend, BackendMidjourney)
	v.SetDefault(EnvOpenAiModel, "dall-e-3")
	v.SetDefault(EnvBrowserHeadless, true)
	v.SetDefault(EnvSeparateAttachments, false)
	v.SetDefault(EnvReplyTimeout, "5m")
	v.SetDefault(EnvPollInterval, "500ms")
	v.SetDefault(EnvFetchTimeout, "5m")
	v.SetDefault(EnvStepTimeout, "30s")
	v.SetDefault(EnvDefaultAspectRatio, "16:9")
	v.SetDefault(EnvCacheBackend, CacheNone)
	v.SetDefault(EnvCacheTtl, "24h")
	v.SetDefault(EnvS3Region, "us-east-1")
	v.SetDefault(EnvPublishConcurrency, 4)
	v.SetDefault(EnvApiIpPort, "0.0.0.0:8080")
	v.SetDefault(EnvKafkaTopicPrompts, "gojourney.prompts")
	v.SetDefault(EnvKafkaTopicResults, "gojourney.results")
	v.SetDefault(EnvKafkaGroupId, "gojourney")

	v.AutomaticEnv()

	return v
}

// NewConfig reads the environment, layered over the optional config file.
// Keys in the file use the environment variable names.
func NewConfig(file string) (*Config, error) {
	v := newViper()

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{
		DiscordEmail:        v.GetString(EnvDiscordEmail),
		DiscordPassword:     v.GetString(EnvDiscordPassword),
		DiscordChannelUrl:   v.GetString(EnvDiscordChannelUrl),
		DiscordLoginUrl:     v.GetString(EnvDiscordLoginUrl),
		ImageBackend:        v.GetString(EnvImageBackend),
		OpenAiApiKey:        v.GetString(EnvOpenAiApiKey),
		OpenAiModel:         v.GetString(EnvOpenAiModel),
		BrowserHeadless:     v.GetBool(EnvBrowserHeadless),
		BrowserExecPath:     v.GetString(EnvBrowserExecPath),
		SeparateAttachments: v.GetBool(EnvSeparateAttachments),
		ReplyTimeout:        v.GetString(EnvReplyTimeout),
		PollInterval:        v.GetString(EnvPollInterval),
		FetchTimeout:        v.GetString(EnvFetchTimeout),
		StepTimeout:         v.GetString(EnvStepTimeout),
		DefaultAspectRatio:  v.GetString(EnvDefaultAspectRatio),
		CacheBackend:        v.GetString(EnvCacheBackend),
		CacheDir:            v.GetString(EnvCacheDir),
		CacheTtl:            v.GetString(EnvCacheTtl),
		CacheSealingKey:     v.GetString(EnvCacheSealingKey),
		RedisUrl:            v.GetString(EnvRedisUrl),
		OutputDir:           v.GetString(EnvOutputDir),
		S3Endpoint:          v.GetString(EnvS3Endpoint),
		S3Region:            v.GetString(EnvS3Region),
		S3Bucket:            v.GetString(EnvS3Bucket),
		S3AccessKey:         v.GetString(EnvS3AccessKey),
		S3SecretKey:         v.GetString(EnvS3SecretKey),
		S3PublicUrl:         v.GetString(EnvS3PublicUrl),
		PinataJwtKey:        v.GetString(EnvPinataJwtKey),
		PublishConcurrency:  v.GetInt(EnvPublishConcurrency),
		ApiIpPort:           v.GetString(EnvApiIpPort),
		KafkaBrokers:        stringList(v, EnvKafkaBrokers),
		KafkaTopicPrompts:   v.GetString(EnvKafkaTopicPrompts),
		KafkaTopicResults:   v.GetString(EnvKafkaTopicResults),
		KafkaGroupId:        v.GetString(EnvKafkaGroupId),
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate checks the settings needed to start. Discord credentials are
// not required here: a request without them fails with an authentication
// error, and cached prompts never need them.
func (c *Config) Validate() error {
	if !slices.Contains([]string{BackendMidjourney, BackendOpenAi}, c.ImageBackend) {
		return fmt.Errorf("%s must be %s or %s", EnvImageBackend, BackendMidjourney, BackendOpenAi)
	}
	if c.ImageBackend == BackendOpenAi && c.OpenAiApiKey == "" {
		return errors.New("OPENAI_API_KEY is required")
	}

	for _, d := range []struct {
		name  string
		value string
	}{
		{EnvReplyTimeout, c.ReplyTimeout},
		{EnvPollInterval, c.PollInterval},
		{EnvFetchTimeout, c.FetchTimeout},
		{EnvStepTimeout, c.StepTimeout},
		{EnvCacheTtl, c.CacheTtl},
	} {
		if _, err := parsePositiveDuration(d.value); err != nil {
			return fmt.Errorf("%s is invalid: %w", d.name, err)
		}
	}

	switch c.CacheBackend {
	case CacheNone, CacheMemory:
	case CacheFile:
		if c.CacheDir == "" {
			return errors.New("CACHE_DIR is required")
		}
	case CacheRedis:
		if c.RedisUrl == "" {
			return errors.New("REDIS_URL is required")
		}
	default:
		return fmt.Errorf("%s must be one of none, memory, file, redis", EnvCacheBackend)
	}

	if c.S3Bucket != "" && (c.S3AccessKey == "") != (c.S3SecretKey == "") {
		return errors.New("S3_ACCESS_KEY and S3_SECRET_KEY must be set together")
	}

	if c.PublishConcurrency < 1 {
		return errors.New("PUBLISH_CONCURRENCY must be positive")
	}

	return nil
}

// stringList accepts a comma separated string from the environment or a
// list from the config file.
func stringList(v *viper.Viper, key string) []string {
	raw, ok := v.Get(key).(string)
	if !ok {
		return v.GetStringSlice(key)
	}

	var items []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func parsePositiveDuration(value string) (time.Duration, error) {
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, errors.New("must be positive")
	}
	return d, nil
}
