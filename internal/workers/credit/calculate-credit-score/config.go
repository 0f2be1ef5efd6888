// internal/workers/credit/calculate-credit-score/config.go
package calculatecreditscore

import (
	"time"

	"github.com/DWS-OmarMoreno/alfix-services/internal/common/config"
)

type Config struct {
	Timeout       time.Duration
	MaxJobsActive int
}

func LoadConfig(cfg *config.Config) *Config {
	wc := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:       config.GetDuration(wc.Timeout),
		MaxJobsActive: wc.MaxJobsActive,
	}
}
