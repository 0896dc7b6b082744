package config

import "time"

type Config struct {
	Telegram Telegram
	Server   Server
	Currency Currency
	Session  Session

	SqlitePath string `env:"SQLITE_PATH" envDefault:"expenses.db"`
}

type Telegram struct {
	Timeout    int           `env:"TIMEOUT" envDefault:"60"`
	APIURL     string        `env:"EXPENSE_API_URL" envDefault:"http://localhost:8000/expense/"`
	APITimeout time.Duration `env:"EXPENSE_API_TIMEOUT" envDefault:"10s"`
}

type Server struct {
	Bind            string        `env:"BIND_ADDR" envDefault:":8000"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

type Currency struct {
	RateURL       string        `env:"RATE_URL" envDefault:"https://api.exchangerate-api.com/v4/latest/UAH"`
	Target        string        `env:"TARGET_CURRENCY" envDefault:"USD"`
	Strict        bool          `env:"CURRENCY_STRICT" envDefault:"false"`
	Timeout       time.Duration `env:"CURRENCY_TIMEOUT" envDefault:"5s"`
	RetryAttempts int           `env:"CURRENCY_RETRY_ATTEMPTS" envDefault:"3"`
}

type Session struct {
	TTL             time.Duration `env:"SESSION_TTL" envDefault:"30m"`
	JanitorInterval time.Duration `env:"SESSION_JANITOR_INTERVAL" envDefault:"5m"`
}
