package setup

const (
	EnvDiscordEmail        = "DISCORD_EMAIL"
	EnvDiscordPassword     = "DISCORD_PASSWORD"
	EnvDiscordChannelUrl   = "DISCORD_MIDJOURNEY_BOT_CHANNEL_URL"
	EnvDiscordLoginUrl     = "DISCORD_LOGIN_URL"
	EnvImageBackend        = "IMAGE_BACKEND"
	EnvOpenAiApiKey        = "OPENAI_API_KEY"
	EnvOpenAiModel         = "OPENAI_MODEL"
	EnvBrowserHeadless     = "BROWSER_HEADLESS"
	EnvBrowserExecPath     = "BROWSER_EXEC_PATH"
	EnvSeparateAttachments = "SEPARATE_ATTACHMENTS"
	EnvReplyTimeout        = "REPLY_TIMEOUT"
	EnvPollInterval        = "POLL_INTERVAL"
	EnvFetchTimeout        = "FETCH_TIMEOUT"
	EnvStepTimeout         = "STEP_TIMEOUT"
	EnvDefaultAspectRatio  = "DEFAULT_ASPECT_RATIO"
	EnvCacheBackend        = "CACHE_BACKEND"
	EnvCacheDir            = "CACHE_DIR"
	EnvCacheTtl            = "CACHE_TTL"
	EnvCacheSealingKey     = "CACHE_SEALING_KEY"
	EnvRedisUrl            = "REDIS_URL"
	EnvOutputDir           = "OUTPUT_DIR"
	EnvS3Endpoint          = "S3_ENDPOINT"
	EnvS3Region            = "S3_REGION"
	EnvS3Bucket            = "S3_BUCKET"
	EnvS3AccessKey         = "S3_ACCESS_KEY"
	EnvS3SecretKey         = "S3_SECRET_KEY"
	EnvS3PublicUrl         = "S3_PUBLIC_URL"
	EnvPinataJwtKey        = "PINATA_JWT_KEY"
	EnvPublishConcurrency  = "PUBLISH_CONCURRENCY"
	EnvApiIpPort           = "API_IP_PORT"
	EnvKafkaBrokers        = "KAFKA_BROKERS"
	EnvKafkaTopicPrompts   = "KAFKA_TOPIC_PROMPTS"
	EnvKafkaTopicResults   = "KAFKA_TOPIC_RESULTS"
	EnvKafkaGroupId        = "KAFKA_GROUP_ID"
)

const (
	BackendMidjourney = "midjourney"
	BackendOpenAi     = "openai"

	CacheNone   = "none"
	CacheMemory = "memory"
	CacheFile   = "file"
	CacheRedis  = "redis"
)
