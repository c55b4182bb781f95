// internal/workers/matching/evaluate-match/config.go
package evaluatematch

import "time"

type Config struct {
	CacheTTL         time.Duration
	Timeout          time.Duration
	KeywordTablePath string
}

func LoadConfig() *Config {
	return &Config{
		CacheTTL: 10 * time.Minute,
		Timeout:  30 * time.Second,
	}
}
