package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/sethvargo/go-envconfig"
	log "github.com/sirupsen/logrus"
)

type (
	Config struct {
		TelegramAPIToken string  `env:"TOKEN,required"`
		LogLevel         int     `env:"LOG_LEVEL,default=2"`
		DotPath          string  `env:"DOT_PATH,default=~/.guardbot"`
		AdminIDs         []int64 `env:"ADMIN_IDS"`
		MetricsAddr      string  `env:"METRICS_ADDR,default=:2112"`
		SpamDetection    SpamDetection
	}

	SpamDetection struct {
		MaxMessagesPerMinute int           `env:"MAX_MESSAGES_PER_MINUTE,default=5"`
		BanDuration          time.Duration `env:"BAN_DURATION,default=1h"`
		SpamKeywords         []string      `env:"SPAM_KEYWORDS,default=buy now,discount,limited offer,make money,earn cash,investment,bitcoin,crypto,free money"`
		SpamKeywordsFile     string        `env:"SPAM_KEYWORDS_FILE"`
	}
)

var (
	once         sync.Once
	globalConfig = &Config{}
	globalErr    error
)

func Load() (Config, error) {
	once.Do(func() {
		cfg := &Config{}
		envcfg := envconfig.Config{
			Lookuper: envconfig.PrefixLookuper("GB_", envconfig.OsLookuper()),
			Target:   cfg,
		}
		if err := envconfig.ProcessWith(context.Background(), &envcfg); err != nil {
			globalErr = fmt.Errorf("process env config: %w", err)
			return
		}
		home, err := os.UserHomeDir()
		if err != nil {
			globalErr = fmt.Errorf("get user home directory: %w", err)
			return
		}
		cfg.DotPath = strings.Replace(cfg.DotPath, "~", home, 1)

		if cfg.SpamDetection.SpamKeywordsFile != "" {
			keywords, err := LoadKeywordsFile(cfg.SpamDetection.SpamKeywordsFile)
			if err != nil {
				globalErr = fmt.Errorf("load keywords file: %w", err)
				return
			}
			cfg.SpamDetection.SpamKeywords = keywords
		}

		log.Traceln("loaded config")
		globalConfig = cfg
	})
	return *globalConfig, globalErr
}

func Get() Config {
	cfg, err := Load()
	if err != nil {
		log.WithField("error", err.Error()).Error("cant load config")
	}
	return cfg
}

// IsAdmin reports whether the user is in the configured admin list.
func (c Config) IsAdmin(userID int64) bool {
	for _, id := range c.AdminIDs {
		if id == userID {
			return true
		}
	}
	return false
}
