// internal/common/config/config.go
package config

// Config is the main application configuration struct.
type Config struct {
	App            AppConfig               `mapstructure:"app"`
	Camunda        CamundaConfig           `mapstructure:"camunda"`
	Database       DatabaseConfig          `mapstructure:"database"`
	Workers        map[string]WorkerConfig `mapstructure:"workers"`
	Logging        LoggingConfig           `mapstructure:"logging"`
	Links          LinksConfig             `mapstructure:"links"`
	Routing        RoutingConfig           `mapstructure:"routing"`
	Classification ClassificationConfig    `mapstructure:"classification"`
	Notifications  NotificationConfig      `mapstructure:"notifications"`
	Server         ServerConfig            `mapstructure:"server"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type CamundaConfig struct {
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
	Plaintext      bool   `mapstructure:"plaintext"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// WorkerConfig holds the core settings applicable to every worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// LinksConfig controls the link pipeline. Derivation is opt-in.
type LinksConfig struct {
	DeriveLinks bool   `mapstructure:"derive_links"`
	BaseURL     string `mapstructure:"base_url"`
}

// RoutingConfig maps a context name or transaction type code to the ordered
// kinds that should lead the output.
type RoutingConfig struct {
	PolicyByContext   map[string][]string `mapstructure:"policy_by_context"`
	PolicyByTransType map[string][]string `mapstructure:"policy_by_trans_type"`
}

type ClassificationConfig struct {
	MinScore int `mapstructure:"min_score"`
}

// Sink names accepted by notifications.sink.
const (
	SinkLog   = "log"
	SinkRedis = "redis"
	SinkSNS   = "sns"
	SinkNone  = "none"
)

// NotificationConfig selects and configures the notification sink.
type NotificationConfig struct {
	Sink  string `mapstructure:"sink"`
	Redis struct {
		Channel string `mapstructure:"channel"`
	} `mapstructure:"redis"`
	SNS struct {
		TopicARN string `mapstructure:"topic_arn"`
		Subject  string `mapstructure:"subject"`
	} `mapstructure:"sns"`
	AWS struct {
		Region string `mapstructure:"region"`
	} `mapstructure:"aws"`
}

type ServerConfig struct {
	Address string `mapstructure:"address"`
}
