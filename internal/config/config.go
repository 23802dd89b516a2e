package config

import (
	"log"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

const defaultConfigPath = "./config/local.yaml"

type Config struct {
	Env          string `yaml:"env" env:"ENV" env-default:"prod"`
	ErrorLogPath string `yaml:"error_log_path" env:"ERROR_LOG_PATH" env-default:"errors.log"`
	Timezone     string `yaml:"timezone" env:"TIMEZONE" env-default:"Asia/Jakarta"`
	HTTPServer   `yaml:"http_server"`
	DB           DB       `yaml:"db"`
	Admin        Admin    `yaml:"admin"`
	CORS         CORS     `yaml:"cors"`
	Snapshot     Snapshot `yaml:"snapshot"`
}

type HTTPServer struct {
	Address     string        `yaml:"address" env:"HTTP_ADDRESS" env-default:"localhost:4001"`
	Timeout     time.Duration `yaml:"timeout" env-default:"15s"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env-default:"60s"`
}

type DB struct {
	Host     string `yaml:"host" env:"DB_HOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"DB_PORT" env-default:"3306"`
	User     string `yaml:"user" env:"DB_USER" env-required:"true"`
	Password string `yaml:"password" env:"DB_PASSWORD"`
	Name     string `yaml:"name" env:"DB_NAME" env-required:"true"`
}

type Admin struct {
	Login    string `yaml:"login" env:"ADMIN_LOGIN"`
	Password string `yaml:"password" env:"ADMIN_PASSWORD"`
}

type CORS struct {
	AllowedOrigins []string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"http://localhost:5173"`
}

type Snapshot struct {
	// TTL снапшота, после него Get перечитывает базу
	TTL time.Duration `yaml:"ttl" env-default:"5m"`
	// RefreshCron - cron с секундами, пусто - без фонового обновления
	RefreshCron string `yaml:"refresh_cron" env-default:"0 */5 * * * *"`
}

// Location - часовой пояс для дат SO без зоны.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func MustConfig() *Config {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = defaultConfigPath
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		log.Fatalf("config file does not exist: %s", configPath)
	}

	var cfg Config
	if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
		log.Fatalf("cannot read config: %s", err)
	}

	return &cfg
}
