package config

import (
	"time"
)

type DB struct {
	Url             string        `envconfig:"URL"`
	MaxOpenConns    int           `envconfig:"MAX_OPEN_CONNS" default:"25"`
	MaxIdleConns    int           `envconfig:"MAX_IDLE_CONNS" default:"25"`
	ConnMaxLifetime time.Duration `envconfig:"CONN_MAX_LIFETIME" default:"1h"`
}

// Payme holds the merchant credentials and the amount bounds enforced on
// incoming provider calls. Amounts are in minor units.
type Payme struct {
	Login      string `envconfig:"LOGIN" default:"Paycom"`
	MerchantID string `envconfig:"MERCHANT_ID"`
	Key        string `envconfig:"KEY"`
	MinAmount  int64  `envconfig:"MIN_AMOUNT" default:"100000"`
	MaxAmount  int64  `envconfig:"MAX_AMOUNT" default:"1000000000"`
	Endpoint   string `envconfig:"ENDPOINT" default:"/payme"`
}

type Redis struct {
	URL          string        `envconfig:"URL" default:"redis://localhost:6379/0"`
	PoolSize     int           `envconfig:"POOL_SIZE" default:"10"`
	DialTimeout  time.Duration `envconfig:"DIAL_TIMEOUT" default:"5s"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"3s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"3s"`
}

// EventBus selects where transaction lifecycle events are published.
type EventBus struct {
	Driver       string `envconfig:"DRIVER" default:"memory"`
	RedisURL     string `envconfig:"REDIS_URL"`
	KafkaBrokers string `envconfig:"KAFKA_BROKERS" default:"localhost:9092"`
	Topic        string `envconfig:"TOPIC" default:"payme.transactions"`
	GroupID      string `envconfig:"GROUP_ID" default:"payme-engine"`
}

type Admin struct {
	JwtSecret string        `envconfig:"JWT_SECRET"`
	JwtExpiry time.Duration `envconfig:"JWT_EXPIRY" default:"1h"`
}

type RateLimit struct {
	MaxRequests int           `envconfig:"MAX_REQUESTS" default:"100"`
	Window      time.Duration `envconfig:"WINDOW" default:"1m"`
}

type Log struct {
	Level      int    `envconfig:"LEVEL" default:"0"`
	Format     string `envconfig:"FORMAT" default:"json"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"2006-01-02 15:04:05"`
	Prefix     string `envconfig:"PREFIX" default:"[payme]"`
}

type Server struct {
	Scheme string `envconfig:"SCHEME" default:"http"`
	Host   string `envconfig:"HOST" default:"localhost"`
	Port   int    `envconfig:"PORT" default:"3000"`
}

type App struct {
	Env       string     `envconfig:"APP_ENV" default:"development"`
	Server    *Server    `envconfig:"SERVER"`
	Log       *Log       `envconfig:"LOG"`
	DB        *DB        `envconfig:"DATABASE"`
	Payme     *Payme     `envconfig:"PAYME"`
	Redis     *Redis     `envconfig:"REDIS"`
	EventBus  *EventBus  `envconfig:"EVENT_BUS"`
	Admin     *Admin     `envconfig:"ADMIN"`
	RateLimit *RateLimit `envconfig:"RATE_LIMIT"`
}
