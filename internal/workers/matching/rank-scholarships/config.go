// internal/workers/matching/rank-scholarships/config.go
package rankscholarships

import "time"

type Config struct {
	Timeout          time.Duration
	MaxItems         int
	KeywordTablePath string
}

func LoadConfig() *Config {
	return &Config{
		Timeout:  30 * time.Second,
		MaxItems: 100,
	}
}
