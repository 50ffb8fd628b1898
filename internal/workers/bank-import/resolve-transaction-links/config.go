// internal/workers/bank-import/resolve-transaction-links/config.go
package resolvetransactionlinks

import "time"

type Config struct {
	Timeout     time.Duration
	DeriveLinks bool
	BaseURL     string
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 10 * time.Second,
	}
}
