package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const configPathEnv = "CONFIG_FILE"

type RedisConfig struct {
	Addr     string `yaml:"addr" env:"REDIS_ADDR"`
	Password string `yaml:"password" env:"REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"REDIS_DB"`
}

type MailConfig struct {
	Host     string `yaml:"host" env:"MAIL_SERVER"`
	Port     int    `yaml:"port" env:"MAIL_PORT"`
	Username string `yaml:"username" env:"MAIL_USERNAME"`
	Password string `yaml:"password" env:"MAIL_PASSWORD"`
	From     string `yaml:"from" env:"MAIL_DEFAULT_SENDER"`
	SSL      bool   `yaml:"ssl" env:"MAIL_USE_SSL"`
}

// AdminConfig is the account created by EnsureAdmin when no admin exists yet.
type AdminConfig struct {
	Username string `yaml:"username" env:"ADMIN_USERNAME"`
	Email    string `yaml:"email" env:"ADMIN_EMAIL"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

type Config struct {
	HTTPAddr      string      `yaml:"http_addr" env:"HTTP_ADDR"`
	DatabaseURL   string      `yaml:"database_url" env:"DATABASE_URL"`
	JWTSecret     string      `yaml:"jwt_secret" env:"JWT_SECRET"`
	LogLevel      string      `yaml:"log_level" env:"LOG_LEVEL"`
	Redis         RedisConfig `yaml:"redis"`
	Mail          MailConfig  `yaml:"mail"`
	Admin         AdminConfig `yaml:"admin"`
	ExportDir     string      `yaml:"export_dir" env:"EXPORT_DIR"`
	PublicBaseURL string      `yaml:"public_base_url" env:"PUBLIC_BASE_URL"`

	WorkerCount      int           `yaml:"worker_count" env:"WORKER_COUNT"`
	ReminderInterval time.Duration `yaml:"reminder_interval" env:"REMINDER_INTERVAL"`
	JobTimeout       time.Duration `yaml:"job_timeout" env:"JOB_TIMEOUT"`
	JobResultTTL     time.Duration `yaml:"job_result_ttl" env:"JOB_RESULT_TTL"`
}

var loadDotenv = func() error { return godotenv.Load() }

func Default() Config {
	return Config{
		HTTPAddr: ":8080",
		Mail: MailConfig{
			Host: "smtp.gmail.com",
			Port: 587,
		},
		Admin: AdminConfig{
			Username: "admin",
			Email:    "admin@parking.com",
			Password: "admin123",
		},
		ExportDir:        "exports",
		PublicBaseURL:    "http://localhost:8080",
		WorkerCount:      2,
		ReminderInterval: 24 * time.Hour,
		JobTimeout:       5 * time.Minute,
		JobResultTTL:     24 * time.Hour,
	}
}

// Load builds the configuration from defaults, an optional .env file, an
// optional YAML file named by CONFIG_FILE and finally environment variables.
func Load() (Config, error) {
	cfg := Default()

	if err := loadDotenv(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("config: load .env: %w", err)
	}

	if path := os.Getenv(configPathEnv); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return cfg, err
		}
	}

	if err := populateFromEnv(reflect.ValueOf(&cfg).Elem()); err != nil {
		return cfg, err
	}
	if cfg.Mail.From == "" {
		cfg.Mail.From = cfg.Mail.Username
	}
	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	var missing []string
	if c.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}
	if c.JWTSecret == "" {
		missing = append(missing, "JWT_SECRET")
	}
	if c.Redis.Addr == "" {
		missing = append(missing, "REDIS_ADDR")
	}
	if len(missing) > 0 {
		return fmt.Errorf("config: missing %s", strings.Join(missing, ", "))
	}
	if c.WorkerCount <= 0 {
		return fmt.Errorf("config: WORKER_COUNT must be > 0, got %d", c.WorkerCount)
	}
	if c.ReminderInterval <= 0 {
		return fmt.Errorf("config: REMINDER_INTERVAL must be > 0")
	}
	return nil
}

func loadFromFile(path string, target *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read file: %w", err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("config: decode yaml: %w", err)
	}
	return nil
}

func populateFromEnv(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < v.NumField(); i++ {
		fieldVal := v.Field(i)
		fieldType := t.Field(i)
		if !fieldVal.CanSet() {
			continue
		}

		if fieldVal.Kind() == reflect.Struct {
			if err := populateFromEnv(fieldVal); err != nil {
				return err
			}
			continue
		}

		key := fieldType.Tag.Get("env")
		if key == "" || key == "-" {
			continue
		}
		if val, ok := os.LookupEnv(key); ok {
			if err := assign(fieldVal, val); err != nil {
				return fmt.Errorf("config: parse %s: %w", key, err)
			}
		}
	}
	return nil
}

var durationType = reflect.TypeOf(time.Duration(0))

func assign(field reflect.Value, value string) error {
	if field.Type() == durationType {
		d, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		field.SetInt(int64(d))
		return nil
	}
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(parsed)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		parsed, err := strconv.ParseInt(value, 10, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetInt(parsed)
	case reflect.Float32, reflect.Float64:
		parsed, err := strconv.ParseFloat(value, field.Type().Bits())
		if err != nil {
			return err
		}
		field.SetFloat(parsed)
	default:
		return fmt.Errorf("unsupported field type %s", field.Type().String())
	}
	return nil
}
