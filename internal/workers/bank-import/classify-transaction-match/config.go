// internal/workers/bank-import/classify-transaction-match/config.go
package classifytransactionmatch

import (
	"time"

	"bankimport-workers/internal/matching"
)

type Config struct {
	Timeout  time.Duration
	MinScore int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  5 * time.Second,
		MinScore: matching.DefaultMinScore,
	}
}
