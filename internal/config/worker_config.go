package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/mini-maxit/grader/internal/logger"
	"github.com/mini-maxit/grader/pkg/constants"
	"go.uber.org/zap"
)

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type Config struct {
	BackendAPIURL       string
	Submitter           string
	SubmissionQueueName string

	PistonURL           string
	PythonVersion       string
	JDoodleURL          string
	JDoodleClientID     string
	JDoodleClientSecret string
	JavaVersionIndex    string
	RemoteTimeout       time.Duration

	JSTimeout         time.Duration
	RunnerParallelism int

	ExecutionCache string
	CacheTTL       time.Duration
	Redis          RedisConfig

	RabbitMQURL       string
	WorkerQueueName   string
	MaxWorkers        int
	EvaluationTimeout time.Duration
}

func NewConfig() *Config {
	logger := logger.NewNamedLogger("config")

	_, err := os.Stat(".env")
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Fatalf("failed to stat .env file with error: %v", err)
		}
	} else {
		if os.Getenv("ENV") == "PROD" {
			logger.Warn(".env file detected in production environment. This is not recommended.")
		}
		err = godotenv.Load(".env")
		if err != nil {
			logger.Fatalf("failed to load .env file with error: %v", err)
		}
	}

	cfg := &Config{
		BackendAPIURL:       stringEnv(logger, "BACKEND_API_URL", constants.DefaultBackendAPIURL),
		Submitter:           stringEnv(logger, "SUBMITTER", constants.DefaultSubmitter),
		SubmissionQueueName: stringEnv(logger, "SUBMISSION_QUEUE_NAME", constants.DefaultSubmissionQueueName),
		RunnerParallelism:   intEnv(logger, "RUNNER_PARALLELISM", constants.DefaultRunnerParallelism),
	}
	remoteConfig(logger, cfg)
	executionConfig(logger, cfg)
	cacheConfig(logger, cfg)
	cfg.RabbitMQURL = rabbitmqConfig(logger)
	cfg.WorkerQueueName, cfg.MaxWorkers = workerConfig(logger)
	cfg.EvaluationTimeout = time.Duration(
		intEnv(logger, "EVALUATION_TIMEOUT_SEC", constants.DefaultEvaluationTimeoutSec)) * time.Second

	return cfg
}

func remoteConfig(logger *zap.SugaredLogger, cfg *Config) {
	cfg.PistonURL = stringEnv(logger, "PISTON_URL", constants.DefaultPistonURL)
	cfg.PythonVersion = stringEnv(logger, "PYTHON_VERSION", constants.DefaultPythonVersion)
	cfg.JDoodleURL = stringEnv(logger, "JDOODLE_URL", constants.DefaultJDoodleURL)
	cfg.JDoodleClientID = secretEnv(logger, "JDOODLE_CLIENT_ID")
	cfg.JDoodleClientSecret = secretEnv(logger, "JDOODLE_CLIENT_SECRET")
	cfg.JavaVersionIndex = stringEnv(logger, "JAVA_VERSION_INDEX", constants.DefaultJavaVersionIndex)
	cfg.RemoteTimeout = time.Duration(intEnv(logger, "REMOTE_TIMEOUT_SEC", constants.DefaultRemoteTimeoutSec)) * time.Second
}

func executionConfig(logger *zap.SugaredLogger, cfg *Config) {
	cfg.JSTimeout = time.Duration(intEnv(logger, "JS_TIMEOUT_MS", constants.DefaultJSTimeoutMs)) * time.Millisecond
}

func cacheConfig(logger *zap.SugaredLogger, cfg *Config) {
	cfg.ExecutionCache = stringEnv(logger, "EXECUTION_CACHE", constants.DefaultExecutionCache)
	cfg.CacheTTL = time.Duration(intEnv(logger, "EXECUTION_CACHE_TTL_MIN", constants.DefaultCacheTTLMinutes)) * time.Minute
	if cfg.ExecutionCache != constants.ExecutionCacheRedis {
		return
	}
	cfg.Redis = RedisConfig{
		Addr:     stringEnv(logger, "REDIS_ADDR", constants.DefaultRedisAddr),
		Password: secretEnv(logger, "REDIS_PASSWORD"),
		DB:       intEnv(logger, "REDIS_DB", constants.DefaultRedisDB),
	}
}

func rabbitmqConfig(logger *zap.SugaredLogger) string {
	rabbitmqHost := stringEnv(logger, "RABBITMQ_HOST", constants.DefaultRabbitmqHost)
	rabbitmqPortStr := stringEnv(logger, "RABBITMQ_PORT", constants.DefaultRabbitmqPort)
	rabbitmqPort, err := strconv.ParseUint(rabbitmqPortStr, 10, 16)
	if err != nil {
		logger.Fatalf("failed to parse RABBITMQ_PORT with error: %v", err)
	}
	rabbitmqUser := stringEnv(logger, "RABBITMQ_USER", constants.DefaultRabbitmqUser)
	rabbitmqPassword := stringEnv(logger, "RABBITMQ_PASSWORD", constants.DefaultRabbitmqPassword)

	return fmt.Sprintf("amqp://%s:%s@%s:%d/", rabbitmqUser, rabbitmqPassword, rabbitmqHost, rabbitmqPort)
}

func workerConfig(logger *zap.SugaredLogger) (string, int) {
	workerQueueName := stringEnv(logger, "WORKER_QUEUE_NAME", constants.DefaultWorkerQueueName)
	maxWorkers := intEnv(logger, "MAX_WORKERS", constants.DefaultMaxWorkers)
	if maxWorkers < 1 {
		logger.Fatalf("MAX_WORKERS must be positive, got %d", maxWorkers)
	}

	return workerQueueName, maxWorkers
}

func stringEnv(logger *zap.SugaredLogger, key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		logger.Warnf("%s is not set, using default value %s", key, defaultValue)
		return defaultValue
	}
	return value
}

// secretEnv reads an optional credential without echoing it.
func secretEnv(logger *zap.SugaredLogger, key string) string {
	value := os.Getenv(key)
	if value == "" {
		logger.Warnf("%s is not set", key)
	}
	return value
}

func intEnv(logger *zap.SugaredLogger, key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		logger.Warnf("%s is not set, using default value %d", key, defaultValue)
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		logger.Fatalf("failed to parse %s with error: %v", key, err)
	}
	return value
}
