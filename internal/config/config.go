package config

import (
	"fmt"
	"log"
	"os"

	"github.com/spf13/viper"
)

// Config хранит все настройки приложения
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	AI       AIConfig
}

// ServerConfig содержит настройки HTTP сервера
type ServerConfig struct {
	Port         string
	ReadTimeout  int
	WriteTimeout int
}

// DatabaseConfig содержит настройки подключения к PostgreSQL
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig содержит настройки подключения к Redis.
// Redis необязателен: при пустом Addr сервис работает без кеша и rate limiting.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// JWTConfig содержит настройки JWT
type JWTConfig struct {
	Secret         string `mapstructure:"secret"`
	ExpirationDays int    `mapstructure:"expiration_days"` // срок жизни токена, 1–30 дней
}

// AIConfig содержит настройки внешнего генератора вопросов (chat completions API)
type AIConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	APIKey     string `mapstructure:"api_key"`
	Model      string `mapstructure:"model"`
	TimeoutSec int    `mapstructure:"timeout_sec"`
}

// PostgresConnectionString формирует строку подключения к PostgreSQL
func (d *DatabaseConfig) PostgresConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
}

// Load загружает конфигурацию из файла и переменных окружения
func Load(configPath string) (*Config, error) {
	vip := viper.New() // Используем новый экземпляр Viper, чтобы избежать глобального состояния

	// Привязываем переменные окружения явно
	// Привязка для секции Database
	vip.BindEnv("database.host", "DATABASE_HOST")
	vip.BindEnv("database.port", "DATABASE_PORT")
	vip.BindEnv("database.user", "DATABASE_USER")
	vip.BindEnv("database.password", "DATABASE_PASSWORD")
	vip.BindEnv("database.dbname", "DATABASE_DBNAME")
	vip.BindEnv("database.sslmode", "DATABASE_SSLMODE")

	// Привязка для секции Redis
	vip.BindEnv("redis.addr", "REDIS_ADDR")
	vip.BindEnv("redis.password", "REDIS_PASSWORD")
	vip.BindEnv("redis.db", "REDIS_DB")

	// Привязка для секции JWT
	vip.BindEnv("jwt.secret", "JWT_SECRET")
	vip.BindEnv("jwt.expiration_days", "JWT_EXPIRATION_DAYS")

	// Привязка для секции AI
	vip.BindEnv("ai.base_url", "AI_BASE_URL")
	vip.BindEnv("ai.api_key", "AI_API_KEY")
	vip.BindEnv("ai.model", "AI_MODEL")
	vip.BindEnv("ai.timeout_sec", "AI_TIMEOUT_SEC")

	// Привязка для Server
	vip.BindEnv("server.port", "SERVER_PORT")

	// Значения по умолчанию
	vip.SetDefault("server.port", "8080")
	vip.SetDefault("server.readtimeout", 15)
	vip.SetDefault("server.writetimeout", 30)
	vip.SetDefault("database.sslmode", "disable")
	vip.SetDefault("jwt.expiration_days", 7)
	vip.SetDefault("ai.base_url", "https://openrouter.ai/api/v1")
	vip.SetDefault("ai.model", "meta-llama/llama-3.3-8b-instruct:free")
	vip.SetDefault("ai.timeout_sec", 30)

	// Файл конфигурации необязателен: BindEnv покрывает работу без него
	if configPath != "" {
		vip.SetConfigFile(configPath)
		if err := vip.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); ok {
				log.Printf("Файл конфигурации '%s' не найден, используются переменные окружения/умолчания.", configPath)
			} else {
				log.Printf("Предупреждение: не удалось прочитать файл конфигурации '%s': %v", configPath, err)
			}
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Логирование конфигурации (только вне release-режима)
	if os.Getenv("GIN_MODE") != "release" {
		log.Printf("--- Загруженные значения конфигурации ---")
		log.Printf("Server Port: %s", cfg.Server.Port)
		log.Printf("Database Host: %s", cfg.Database.Host)
		log.Printf("Database Name: %s", cfg.Database.DBName)
		log.Printf("Redis Addr: %s", cfg.Redis.Addr)
		log.Printf("JWT Secret Set: %t", cfg.JWT.Secret != "")
		log.Printf("JWT Expiration Days: %d", cfg.JWT.ExpirationDays)
		log.Printf("AI Base URL: %s", cfg.AI.BaseURL)
		log.Printf("AI API Key Set: %t", cfg.AI.APIKey != "")
		log.Printf("-----------------------------------------")
	}

	// Проверка обязательных параметров
	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT secret is required in config (check JWT_SECRET env var)")
	}
	if cfg.Database.Host == "" || cfg.Database.DBName == "" || cfg.Database.User == "" {
		return nil, fmt.Errorf("database configuration (host, dbname, user) is incomplete in config (check DATABASE_HOST, DATABASE_DBNAME, DATABASE_USER env vars)")
	}

	return &cfg, nil
}
