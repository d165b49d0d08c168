package configs

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const (
	AppEnvDev  = "development"
	AppEnvProd = "production"
)

type ENV struct {
	Port      string `envconfig:"APP_PORT" default:":8080"`
	AppEnv    string `envconfig:"APP_ENV" default:"development"`
	AppURL    string `envconfig:"APP_URL" default:"http://localhost:8080"`
	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"json"`

	DBDriver   string `envconfig:"DB_DRIVER" default:"mysql"`
	DBHost     string `envconfig:"DB_HOST" default:"127.0.0.1"`
	DBPort     string `envconfig:"DB_PORT" default:"3306"`
	DBUser     string `envconfig:"DB_USER"`
	DBPassword string `envconfig:"DB_PASSWORD"`
	DBName     string `envconfig:"DB_NAME" default:"fooddelivery"`
	SQLitePath string `envconfig:"SQLITE_PATH" default:"fooddelivery.db"`

	BackendBaseURL         string        `envconfig:"BACKEND_BASE_URL" required:"true"`
	BackendTimeout         time.Duration `envconfig:"BACKEND_TIMEOUT" default:"15s"`
	QtyDebounce            time.Duration `envconfig:"QTY_DEBOUNCE" default:"800ms"`
	SettingsRefreshTimeout time.Duration `envconfig:"SETTINGS_REFRESH_TIMEOUT" default:"10s"`
	StoreTimezone          string        `envconfig:"STORE_TIMEZONE" default:"Local"`
	CurrencySymbol         string        `envconfig:"CURRENCY_SYMBOL" default:"$"`

	AppAuthKey string `envconfig:"APP_AUTH_KEY"`
	AppEncKey  string `envconfig:"APP_ENC_KEY"`
	CSRFKey    string `envconfig:"CSRF_KEY"`

	MidtransServerKey  string `envconfig:"MIDTRANS_SERVER_KEY"`
	MidtransClientKey  string `envconfig:"MIDTRANS_CLIENT_KEY"`
	MidtransProduction bool   `envconfig:"MIDTRANS_PRODUCTION" default:"false"`

	RedisURL          string        `envconfig:"REDIS_URL"`
	DeliveryChargeTTL time.Duration `envconfig:"DELIVERY_CHARGE_TTL" default:"5m"`
}

func (e ENV) IsDev() bool {
	return strings.EqualFold(e.AppEnv, AppEnvDev)
}

func (e ENV) IsProd() bool {
	return strings.EqualFold(e.AppEnv, AppEnvProd)
}

// Location resolves STORE_TIMEZONE, the clock availability windows are read against.
func (e ENV) Location() *time.Location {
	if e.StoreTimezone == "" || e.StoreTimezone == "Local" {
		return time.Local
	}
	loc, err := time.LoadLocation(e.StoreTimezone)
	if err != nil {
		log.Warn().Err(err).Str("timezone", e.StoreTimezone).Msg("configs: unknown STORE_TIMEZONE, falling back to local time")
		return time.Local
	}
	return loc
}

func LoadEnv() (ENV, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Debug().Msg("configs: no .env file found")
	}

	var env ENV
	if err := envconfig.Process("", &env); err != nil {
		return ENV{}, fmt.Errorf("parsing env: %w", err)
	}
	return env, nil
}
