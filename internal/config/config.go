package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/khanghh/kaudit/internal/alert"
	"github.com/khanghh/kaudit/internal/chain"
	"github.com/khanghh/kaudit/internal/detector"
	"github.com/khanghh/kaudit/internal/mail"
	"github.com/khanghh/kaudit/internal/retention"
	"github.com/khanghh/kaudit/internal/risk"
	"github.com/khanghh/kaudit/internal/writer"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
	"github.com/spf13/viper"
)

const (
	DefaultListenAddr  = ":3000"
	DefaultSiteName    = "kaudit"
	DefaultJWTIssuer   = "kaudit"
	DefaultMinSeverity = "critical"
)

type MySQLConfig struct {
	Dsn             string   `mapstructure:"dsn"`
	TablePrefix     string   `mapstructure:"tablePrefix"`
	MaxIdleConns    int      `mapstructure:"maxIdleConns"`
	MaxOpenConns    int      `mapstructure:"maxOpenConns"`
	ConnMaxIdleTime int      `mapstructure:"connMaxIdleTime"`
	ConnMaxLifetime int      `mapstructure:"connMaxLifetime"`
	Replicas        []string `mapstructure:"replicas"`
}

type RedisConfig struct {
	URL         string `mapstructure:"url"`
	PoolSize    int    `mapstructure:"poolSize"`
	ClusterMode bool   `mapstructure:"clusterMode"`
}

type ChainConfig struct {
	Mode string `mapstructure:"mode"`
	Name string `mapstructure:"name"`
}

type RiskConfig struct {
	Weights       risk.Weights  `mapstructure:"weights"`
	HistoryWindow time.Duration `mapstructure:"historyWindow"`
}

type EmailAlertConfig struct {
	Enabled     bool            `mapstructure:"enabled"`
	Recipients  []string        `mapstructure:"recipients"`
	MinSeverity string          `mapstructure:"minSeverity"`
	SMTP        mail.SMTPConfig `mapstructure:"smtp"`
}

type WebhookAlertConfig struct {
	alert.WebhookConfig `mapstructure:",squash"`
	MinSeverity         string `mapstructure:"minSeverity"`
}

type SMSAlertConfig struct {
	alert.SMSConfig `mapstructure:",squash"`
	Enabled         bool   `mapstructure:"enabled"`
	MinSeverity     string `mapstructure:"minSeverity"`
}

type AlertsConfig struct {
	alert.Config `mapstructure:",squash"`
	Email        EmailAlertConfig     `mapstructure:"email"`
	Webhooks     []WebhookAlertConfig `mapstructure:"webhooks"`
	SMS          SMSAlertConfig       `mapstructure:"sms"`
	LogChannel   bool                 `mapstructure:"log"`
}

type APIAuthConfig struct {
	Secret string `mapstructure:"secret"`
	Issuer string `mapstructure:"issuer"`
}

type Config struct {
	Debug           bool             `mapstructure:"debug"`
	SiteName        string           `mapstructure:"siteName"`
	MasterKey       string           `mapstructure:"masterKey"`
	NodeID          int64            `mapstructure:"nodeID"`
	ListenAddr      string           `mapstructure:"listenAddr"`
	HealthCheckAddr string           `mapstructure:"healthCheckAddr"`
	TemplateDir     string           `mapstructure:"templateDir"`
	AllowOrigins    []string         `mapstructure:"allowOrigins"`
	MySQL           MySQLConfig      `mapstructure:"mysql"`
	Redis           RedisConfig      `mapstructure:"redis"`
	Chain           ChainConfig      `mapstructure:"chain"`
	Writer          writer.Config    `mapstructure:"writer"`
	Detector        detector.Config  `mapstructure:"detector"`
	Risk            RiskConfig       `mapstructure:"risk"`
	Alerts          AlertsConfig     `mapstructure:"alerts"`
	Retention       retention.Config `mapstructure:"retention"`
	APIAuth         APIAuthConfig    `mapstructure:"apiAuth"`
}

// ParseMinSeverity returns the configured level, DefaultMinSeverity when empty.
func ParseMinSeverity(name string) (model.Severity, error) {
	if name == "" {
		name = DefaultMinSeverity
	}
	return model.ParseSeverity(name)
}

func (c *Config) Sanitize() error {
	if c.SiteName == "" {
		c.SiteName = DefaultSiteName
	}
	if c.ListenAddr == "" {
		c.ListenAddr = DefaultListenAddr
	}
	if c.HealthCheckAddr == "" {
		c.HealthCheckAddr = params.HealthCheckServerAddr
	}
	if c.MasterKey == "" {
		return errors.New("masterKey is required")
	}
	if c.APIAuth.Secret == "" {
		return errors.New("apiAuth.secret is required")
	}
	if c.Redis.URL == "" {
		return errors.New("redis.url is required")
	}
	if c.APIAuth.Issuer == "" {
		c.APIAuth.Issuer = DefaultJWTIssuer
	}

	dsn, err := sanitizeDSN(c.MySQL.Dsn)
	if err != nil {
		return fmt.Errorf("mysql.dsn: %w", err)
	}
	c.MySQL.Dsn = dsn
	for i, replica := range c.MySQL.Replicas {
		if c.MySQL.Replicas[i], err = sanitizeDSN(replica); err != nil {
			return fmt.Errorf("mysql.replicas[%d]: %w", i, err)
		}
	}

	switch chain.Mode(c.Chain.Mode) {
	case "":
		c.Chain.Mode = string(chain.ModeGlobal)
	case chain.ModeGlobal, chain.ModeCategory:
	default:
		return fmt.Errorf("chain.mode: unknown mode %q", c.Chain.Mode)
	}
	if c.Chain.Name == "" {
		c.Chain.Name = params.DefaultChainName
	}

	if c.Risk.HistoryWindow <= 0 {
		c.Risk.HistoryWindow = params.RiskHistoryWindow
	}
	if c.Risk.Weights.FailureStep == 0 && len(c.Risk.Weights.AdminRoles) == 0 {
		c.Risk.Weights = risk.DefaultWeights()
	}

	for _, level := range []string{c.Alerts.Email.MinSeverity, c.Alerts.SMS.MinSeverity} {
		if _, err := ParseMinSeverity(level); err != nil {
			return fmt.Errorf("alerts: %w", err)
		}
	}
	for _, wh := range c.Alerts.Webhooks {
		if wh.URL == "" {
			return fmt.Errorf("alerts.webhooks: %s has no url", wh.Name)
		}
		if _, err := ParseMinSeverity(wh.MinSeverity); err != nil {
			return fmt.Errorf("alerts.webhooks: %w", err)
		}
	}

	c.Writer.Sanitize()
	c.Detector.Sanitize()
	c.Alerts.Config.Sanitize()
	c.Retention.Sanitize()
	if c.Retention.S3.Enabled && c.Retention.S3.Bucket == "" {
		return errors.New("retention.s3.bucket is required when s3 export is enabled")
	}
	return nil
}

// sanitizeDSN forces parseTime and UTC, event timestamps are compared as
// UTC instants.
func sanitizeDSN(dsn string) (string, error) {
	if dsn == "" {
		return "", errors.New("dsn is required")
	}
	cfg, err := mysql.ParseDSN(dsn)
	if err != nil {
		return "", err
	}
	cfg.ParseTime = true
	cfg.Loc = time.UTC
	return cfg.FormatDSN(), nil
}

func LoadConfig(filename string) (*Config, error) {
	viper.SetConfigFile(filename)
	viper.SetConfigType("yaml")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Sanitize(); err != nil {
		return nil, err
	}
	return &config, nil
}
