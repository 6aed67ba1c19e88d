// Package config загружает конфигурацию сервисов из переменных окружения.
// Используется envconfig для маппинга переменных окружения на поля структуры.
//
// В репозитории два бинарника с разными настройками:
//   - Config      — игровой сервис (cmd/clicker)
//   - StoreConfig — хранилище пользователей (cmd/userstore)
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config содержит ВСЕ настройки игрового сервиса.
type Config struct {
	// --- HTTP ---
	ListenAddr string `envconfig:"LISTEN_ADDR" default:":8080"`

	// --- User Store ---
	// В Docker внутри контейнера "localhost" почти всегда неправильно.
	// Дефолт ставим "userstore" (имя сервиса в docker-compose),
	// а для локалки переопределяй STORE_BASE_URL.
	StoreBaseURL        string        `envconfig:"STORE_BASE_URL" default:"http://userstore:3000"`
	StoreRequestTimeout time.Duration `envconfig:"STORE_REQUEST_TIMEOUT" default:"5s"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// --- Economy ---
	// Стартовые значения для нового игрока
	EconomyStartingBalance int64 `envconfig:"ECONOMY_STARTING_BALANCE" default:"0"`
	EconomyStartingIncome  int64 `envconfig:"ECONOMY_STARTING_INCOME" default:"1"`

	// --- Shop ---
	// Товар 1 («Апгрейд»): +1 к доходу, цена удваивается после покупки
	ShopItem1Cost      int64 `envconfig:"SHOP_ITEM1_COST" default:"100"`
	ShopItem1CostScale int64 `envconfig:"SHOP_ITEM1_COST_SCALE" default:"2"`
	// Товар 2 («Супер-апгрейд»): доход ×10, цена ×100 после покупки
	ShopItem2Cost       int64 `envconfig:"SHOP_ITEM2_COST" default:"2000"`
	ShopItem2CostScale  int64 `envconfig:"SHOP_ITEM2_COST_SCALE" default:"100"`
	ShopItem2Multiplier int64 `envconfig:"SHOP_ITEM2_MULTIPLIER" default:"10"`

	// --- Buff (денежный дождь) ---
	// Сколько покупок товара 1 подряд нужно для запуска баффа
	BuffTriggerPurchases int `envconfig:"BUFF_TRIGGER_PURCHASES" default:"3"`
	// Длительность баффа в тиках (один тик = BuffTickInterval)
	BuffDurationTicks int           `envconfig:"BUFF_DURATION_TICKS" default:"60"`
	BuffTickInterval  time.Duration `envconfig:"BUFF_TICK_INTERVAL" default:"1s"`
	// Множитель дохода во время баффа
	BuffIncomeMultiplier int64 `envconfig:"BUFF_INCOME_MULTIPLIER" default:"2"`

	// --- Jobs ---
	// Периодический страховочный сброс снапшота в хранилище
	AutosaveInterval time.Duration `envconfig:"AUTOSAVE_INTERVAL" default:"1m"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"30"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1s"`
}

// Validate проверяет согласованность настроек игрового сервиса.
func (c *Config) Validate() error {
	if c.StoreBaseURL == "" {
		return fmt.Errorf("STORE_BASE_URL не задан")
	}
	if c.EconomyStartingIncome <= 0 {
		return fmt.Errorf("ECONOMY_STARTING_INCOME должен быть > 0")
	}
	if c.ShopItem1Cost <= 0 || c.ShopItem2Cost <= 0 {
		return fmt.Errorf("цены товаров должны быть > 0")
	}
	if c.ShopItem1CostScale < 1 || c.ShopItem2CostScale < 1 {
		return fmt.Errorf("множители цен должны быть >= 1")
	}
	if c.BuffTriggerPurchases <= 0 {
		return fmt.Errorf("BUFF_TRIGGER_PURCHASES должен быть > 0")
	}
	if c.BuffDurationTicks <= 0 || c.BuffTickInterval <= 0 {
		return fmt.Errorf("некорректные BUFF_DURATION_TICKS/BUFF_TICK_INTERVAL")
	}
	if c.BuffIncomeMultiplier <= 0 {
		return fmt.Errorf("BUFF_INCOME_MULTIPLIER должен быть > 0")
	}
	return nil
}

// Load читает переменные окружения и заполняет структуру Config.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// StoreConfig содержит настройки сервиса-хранилища пользователей.
type StoreConfig struct {
	// --- HTTP ---
	ListenAddr string `envconfig:"STORE_LISTEN_ADDR" default:":3000"`

	// --- Database ---
	DBHost     string `envconfig:"DB_HOST" default:"postgres"`
	DBPort     int    `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"clicker"`
	DBPassword string `envconfig:"DB_PASSWORD" required:"true"`
	DBName     string `envconfig:"DB_NAME" default:"clicker"`
	DBSSLMode  string `envconfig:"DB_SSLMODE" default:"disable"`
	DBMaxConns int32  `envconfig:"DB_MAX_CONNS" default:"25"`
	DBMinConns int32  `envconfig:"DB_MIN_CONNS" default:"5"`

	// --- Application ---
	AppEnv      string `envconfig:"APP_ENV" default:"development"`
	AppLogLevel string `envconfig:"APP_LOG_LEVEL" default:"debug"`

	// --- Limits ---
	UsernameMaxLength int `envconfig:"USERNAME_MAX_LENGTH" default:"32"`

	// --- Rate Limiting ---
	RateLimitRequests int           `envconfig:"RATE_LIMIT_REQUESTS" default:"30"`
	RateLimitWindow   time.Duration `envconfig:"RATE_LIMIT_WINDOW" default:"1s"`
}

// DatabaseDSN возвращает строку подключения к PostgreSQL в формате DSN.
func (c *StoreConfig) DatabaseDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName, c.DBSSLMode,
	)
}

// Validate проверяет настройки хранилища.
func (c *StoreConfig) Validate() error {
	if c.DBMaxConns <= 0 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("некорректные DB_MIN_CONNS/DB_MAX_CONNS")
	}
	if c.UsernameMaxLength <= 0 {
		return fmt.Errorf("USERNAME_MAX_LENGTH должен быть > 0")
	}
	return nil
}

// LoadStore читает переменные окружения для сервиса-хранилища.
func LoadStore() (*StoreConfig, error) {
	var cfg StoreConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("не удалось загрузить конфигурацию: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
