package config

import "time"

type Config struct {
	Environment Environment
	Log         Log
	HTTP        HTTPServer
	BaseURL     string `env:"BASE_URL"`
	FrontendURL string `env:"FRONTEND_URL"`

	Database Database `envPrefix:"DB_"`
	JWT      JWT      `envPrefix:"JWT_"`
	Khalti   Khalti   `envPrefix:"KHALTI_"`
	SMTP     SMTP     `envPrefix:"SMTP_"`
}

type Khalti struct {
	BaseApiURL string `env:"BASE_API_URL" envDefault:"https://a.khalti.com/api/v2"`
	SecretKey  string `env:"SECRET_KEY"`
}

type Database struct {
	// mysql in deployments, sqlite for local development
	Driver string `env:"DRIVER" envDefault:"mysql"`
	URL    string `env:"URL" envDefault:"elixa.db"`
}

type JWT struct {
	Secret string        `env:"SECRET"`
	TTL    time.Duration `env:"TTL" envDefault:"24h"`
}

type SMTP struct {
	Host     string `env:"HOST"`
	Port     int    `env:"PORT" envDefault:"587"`
	Username string `env:"USERNAME"`
	Password string `env:"PASSWORD"`
	From     string `env:"FROM" envDefault:"noreply@elixa.shop"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}
