package main

import (
	"time"

	"github.com/vag-Zhao/WeMediaSpider/config"
)

func ttlFromConfig(cfg *config.Config) time.Duration {
	return time.Duration(cfg.Session.CacheTTLHours) * time.Hour
}
