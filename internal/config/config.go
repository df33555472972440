package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

type (
	Config struct {
		App        App     `env-prefix:"APP_"`
		Logger     Logger  `env-prefix:"LOGGER_"`
		HTTP       HTTP    `env-prefix:"HTTP_"`
		Metrics    Metrics `env-prefix:"METRICS_"`
		Gateway    Gateway
		Invoice    Invoice
		Download   Download
		OrderID    OrderID    `env-prefix:"ORDER_ID_"`
		Redelivery Redelivery `env-prefix:"REDELIVERY_"`
		Events     Events     `env-prefix:"EVENTS_"`
		Env        string     `                           env:"ENV" env-default:"local" validate:"oneof=local dev staging prod"`
	}

	App struct {
		Name    string `env:"NAME"    validate:"required" env-default:"kids-worksheet-payments"`
		Version string `env:"VERSION" validate:"required" env-default:"1.0.0"`
	}

	HTTP struct {
		Host              string        `env:"HOST"                validate:"required"                 env-default:"0.0.0.0"`
		Port              string        `env:"PORT"                validate:"required,gte=1,lte=65535" env-default:"8080"`
		ReadTimeout       time.Duration `env:"READ_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"5s"`
		WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"       validate:"gte=10ms,lte=2m"          env-default:"45s"`
		IdleTimeout       time.Duration `env:"IDLE_TIMEOUT"        validate:"gte=10ms,lte=2m"          env-default:"60s"`
		ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT"    validate:"gte=10ms,lte=2m"          env-default:"35s"`
		ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
		CORSOrigins       []string      `env:"CORS_ORIGINS"        validate:"dive,url"                 env-default:"https://kidsworksheet.store,https://www.kidsworksheet.store,http://localhost:3000,http://127.0.0.1:3000" env-separator:","`
	}

	Metrics struct {
		Host              string        `env:"HOST"                validate:"required"                 env-default:"0.0.0.0"`
		Port              string        `env:"PORT"                validate:"required,gte=1,lte=65535" env-default:"9090"`
		ReadTimeout       time.Duration `env:"READ_TIMEOUT"        validate:"gte=10ms,lte=30s"         env-default:"5s"`
		WriteTimeout      time.Duration `env:"WRITE_TIMEOUT"       validate:"gte=10ms,lte=30s"         env-default:"5s"`
		ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" validate:"gte=10ms,lte=30s"         env-default:"5s"`
	}

	Logger struct {
		Level      string `env:"LEVEL"       env-default:"info"                       validate:"oneof=debug info warn error"`
		Filename   string `env:"FILENAME"    env-default:"./logs/payment-service.log"`
		MaxSize    int    `env:"MAX_SIZE"    env-default:"100"                        validate:"min=1,max=1000"`
		MaxBackups int    `env:"MAX_BACKUPS" env-default:"3"                          validate:"min=1,max=20"`
		MaxAge     int    `env:"MAX_AGE"     env-default:"28"                         validate:"min=1,max=365"`
	}

	// Gateway keys are looked up under every name they have been deployed with.
	Gateway struct {
		ServerKey     string        `env:"MIDTRANS_SERVER_KEY,midtrans_server_key,MIDTRANS_SERVER_KEYS,midtransServerKey,midtrans-server-key" validate:"required"`
		ClientKey     string        `env:"MIDTRANS_CLIENT_KEY,midtrans_client_key,MIDTRANS_CLIENT_KEYS,midtransClientKey,midtrans-client-key"`
		IsProduction  bool          `env:"MIDTRANS_IS_PRODUCTION"      env-default:"true"`
		SnapURL       string        `env:"MIDTRANS_SNAP_URL"           validate:"omitempty,url"`
		APIURL        string        `env:"MIDTRANS_API_URL"            validate:"omitempty,url"`
		Timeout       time.Duration `env:"GATEWAY_TIMEOUT"             validate:"gte=100ms,lte=1m" env-default:"10s"`
		MaxAttempts   int           `env:"GATEWAY_MAX_ATTEMPTS"        validate:"min=1,max=10"     env-default:"3"`
		ExpiryMinutes int           `env:"TRANSACTION_EXPIRY_MINUTES"  validate:"min=1,max=10080"  env-default:"15"`
	}

	Invoice struct {
		URL       string        `env:"SEND_INVOICE_URL"                              validate:"required,url"     env-default:"https://sendinvoiceemail-smbjamnkmq-et.a.run.app"`
		Timeout   time.Duration `env:"INVOICE_TIMEOUT"                               validate:"gte=100ms,lte=2m" env-default:"30s"`
		FromEmail string        `env:"FROM_EMAIL,from_email,FromEmail"               validate:"omitempty,email"  env-default:"noreply@kidsworksheet.store"`
		APIKey    string        `env:"SENDGRID_API_KEY,sendgrid_api_key,sendgridApiKey,sendgrid-api-key"`
		AuthToken string        `env:"INVOICE_AUTH_TOKEN"`
	}

	Download struct {
		Mode        string        `env:"DOWNLOAD_MODE"                    validate:"oneof=direct signed"                env-default:"direct"`
		BaseURL     string        `env:"DOWNLOAD_BASE_URL"                validate:"required,url"                       env-default:"https://kidsworksheet.store/Modul"`
		Extension   string        `env:"DOWNLOAD_EXTENSION"               validate:"required,startswith=."              env-default:".pdf"`
		VerifierURL string        `env:"DOWNLOAD_VERIFIER_URL"            validate:"omitempty,url"`
		Secret      string        `env:"DOWNLOAD_SECRET,download_secret"  validate:"required_if=Mode signed"`
		TTL         time.Duration `env:"DOWNLOAD_TTL"                     validate:"gte=1m,lte=720h"                    env-default:"24h"`
	}

	OrderID struct {
		Prefix string `env:"PREFIX" validate:"required,alphanum,max=10" env-default:"KWS"`
	}

	Redelivery struct {
		Enabled         bool          `env:"ENABLED"          env-default:"true"`
		Capacity        int           `env:"CAPACITY"         validate:"min=1,max=1000000" env-default:"10000"`
		TTL             time.Duration `env:"TTL"              validate:"gt=0s,lte=720h"    env-default:"24h"`
		CleanupInterval time.Duration `env:"CLEANUP_INTERVAL" validate:"gt=0s,lte=24h"     env-default:"1m"`
	}

	Events struct {
		Driver       string        `env:"DRIVER"        validate:"oneof=none kafka nats"     env-default:"none"`
		Brokers      []string      `env:"BROKERS"       validate:"required_if=Driver kafka,dive,hostname_port" env-separator:","`
		Topic        string        `env:"TOPIC"         validate:"required"                 env-default:"payment-events"`
		NATSURL      string        `env:"NATS_URL"      validate:"required_if=Driver nats"`
		Subject      string        `env:"SUBJECT"       validate:"required"                 env-default:"payments"`
		WriteTimeout time.Duration `env:"WRITE_TIMEOUT" validate:"gte=1ms,lte=30s"          env-default:"5s"`
	}
)

// Load reads an optional .env file, then the config file given by -config or
// CONFIG_PATH. Without a config file the environment alone is used.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return LoadPath(fetchConfigPath())
}

func LoadPath(configPath string) (*Config, error) {
	const op = "config.LoadPath"

	var cfg Config
	if configPath == "" {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("%s: read env: %w", op, err)
		}
	} else {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s: config file does not exist: %s", op, configPath)
		} else if err != nil {
			return nil, fmt.Errorf("%s: checking config file: %w", op, err)
		}

		if err := cleanenv.ReadConfig(configPath, &cfg); err != nil {
			return nil, fmt.Errorf("%s: read config: %w", op, err)
		}
	}

	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	var validationErrors []string
	if err := validator.New().Struct(cfg); err != nil {
		var validationErrs validator.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, ve := range validationErrs {
				validationErrors = append(validationErrors,
					fmt.Sprintf("%s must satisfy '%s'", ve.Namespace(), ve.Tag()))
			}
			return fmt.Errorf("config validation: %v", strings.Join(validationErrors, "; "))
		}
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}

func fetchConfigPath() string {
	var path string
	flag.StringVar(&path, "config", "", "Path to config file")
	flag.Parse()

	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	return path
}
