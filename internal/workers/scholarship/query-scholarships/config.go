// internal/workers/scholarship/query-scholarships/config.go
package queryscholarships

import "time"

type Config struct {
	Timeout time.Duration
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 15 * time.Second,
	}
}
