package config

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Env    string `yaml:"env" env-default:"local"`
	Listen struct {
		BindIP string `yaml:"bind_ip" env-default:"127.0.0.1"`
		Port   string `yaml:"port" env-default:"9100"`
		// FeedKey protects the operator lead feed.
		FeedKey string `yaml:"feed_key" env-default:""`
		// CookieSecure marks the visitor cookie as https-only.
		CookieSecure bool `yaml:"cookie_secure" env-default:"false"`
	} `yaml:"listen"`
	Flow struct {
		DefaultVariant string `yaml:"default_variant" env-default:"lp06"`
	} `yaml:"flow"`
	Leads struct {
		URL          string        `yaml:"url" env:"LEADS_URL" env-default:""`
		Timeout      time.Duration `yaml:"timeout" env-default:"10s"`
		ProbeTimeout time.Duration `yaml:"probe_timeout" env-default:"2500ms"`
		ThanksPath   string        `yaml:"thanks_path" env-default:"/obrigado"`
	} `yaml:"leads"`
	WhatsApp struct {
		Enabled bool          `yaml:"enabled" env-default:"false"`
		URL     string        `yaml:"url" env-default:""`
		ApiKey  string        `yaml:"api_key" env:"WHATSAPP_API_KEY" env-default:""`
		Timeout time.Duration `yaml:"timeout" env-default:"5s"`
	} `yaml:"whatsapp"`
	Redis struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Address  string `yaml:"address" env-default:"127.0.0.1:6379"`
		Password string `yaml:"password" env-default:""`
		DB       int    `yaml:"db" env-default:"0"`
		// FlagTTL of zero keeps the submission flag forever.
		FlagTTL time.Duration `yaml:"flag_ttl" env-default:"0s"`
	} `yaml:"redis"`
	Mongo struct {
		Enabled  bool   `yaml:"enabled" env-default:"false"`
		Host     string `yaml:"host" env-default:"127.0.0.1"`
		Port     string `yaml:"port" env-default:"27017"`
		User     string `yaml:"user" env-default:""`
		Password string `yaml:"password" env-default:""`
		Database string `yaml:"database" env-default:"leadfunnel"`
	} `yaml:"mongo"`
	Session struct {
		TTL time.Duration `yaml:"ttl" env-default:"2h"`
	} `yaml:"session"`
	Telegram struct {
		Enabled bool   `yaml:"enabled" env-default:"false"`
		ApiKey  string `yaml:"api_key" env-default:""`
		ChatId  int64  `yaml:"chat_id" env-default:"0"`
	} `yaml:"telegram"`
}

var instance *Config
var once sync.Once

func MustLoad(path string) *Config {
	var err error
	once.Do(func() {
		instance = &Config{}
		if err = cleanenv.ReadConfig(path, instance); err != nil {
			desc, _ := cleanenv.GetDescription(instance, nil)
			err = fmt.Errorf("%s; %s", err, desc)
			instance = nil
			log.Fatal(err)
		}
	})
	return instance
}
