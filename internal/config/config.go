package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App        App        `mapstructure:",squash"`
	Server     Server     `mapstructure:",squash"`
	Database   Database   `mapstructure:",squash"`
	Meli       Meli       `mapstructure:",squash"`
	FullSync   FullSync   `mapstructure:",squash"`
	RecentSync RecentSync `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Timezone string `mapstructure:"app_timezone"`
}

type Server struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
}

// Meli agrupa as configurações da API do Mercado Livre
type Meli struct {
	BaseURL               string `mapstructure:"meli_base_url"`
	RequestTimeoutSeconds int    `mapstructure:"meli_request_timeout_seconds"`
	MaxRetries            int    `mapstructure:"meli_max_retries"`
	PageSize              int    `mapstructure:"meli_page_size"`
	MaxPages              int    `mapstructure:"meli_max_pages"`
	OrderWorkers          int    `mapstructure:"meli_order_workers"`
}

// FullSync configura a reconciliação ampla (janela em dias)
type FullSync struct {
	CronSchedule          string `mapstructure:"full_sync_cron"`
	WindowDays            int    `mapstructure:"full_sync_window_days"`
	MaxConcurrentAccounts int    `mapstructure:"full_sync_max_concurrent_accounts"`
	AccountTimeoutMinutes int    `mapstructure:"full_sync_account_timeout_minutes"`
	Enabled               bool   `mapstructure:"full_sync_enabled"`
}

// RecentSync configura a sincronização de pedidos recentes (janela em horas)
type RecentSync struct {
	CronSchedule          string `mapstructure:"recent_sync_cron"`
	WindowHours           int    `mapstructure:"recent_sync_window_hours"`
	MaxConcurrentAccounts int    `mapstructure:"recent_sync_max_concurrent_accounts"`
	AccountTimeoutMinutes int    `mapstructure:"recent_sync_account_timeout_minutes"`
	Enabled               bool   `mapstructure:"recent_sync_enabled"`
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/fisgarone")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "root")

	viper.SetDefault("MELI_BASE_URL", "https://api.mercadolibre.com")
	viper.SetDefault("MELI_REQUEST_TIMEOUT_SECONDS", 30)
	viper.SetDefault("MELI_MAX_RETRIES", 3)    // Tentativas para erros transitórios e 429
	viper.SetDefault("MELI_PAGE_SIZE", 50)     // Tamanho da página em /orders/search
	viper.SetDefault("MELI_MAX_PAGES", 200)    // Trava defensiva contra paginação sem fim
	viper.SetDefault("MELI_ORDER_WORKERS", 10) // Pedidos processados em paralelo por página

	// Defaults da reconciliação ampla
	viper.SetDefault("FULL_SYNC_CRON", "0 4 * * *") // Todos os dias às 4h da manhã
	viper.SetDefault("FULL_SYNC_WINDOW_DAYS", 60)
	viper.SetDefault("FULL_SYNC_MAX_CONCURRENT_ACCOUNTS", 3)
	viper.SetDefault("FULL_SYNC_ACCOUNT_TIMEOUT_MINUTES", 15)
	viper.SetDefault("FULL_SYNC_ENABLED", false)

	// Defaults da sincronização recente
	viper.SetDefault("RECENT_SYNC_CRON", "0 */2 * * *") // A cada 2 horas
	viper.SetDefault("RECENT_SYNC_WINDOW_HOURS", 3)
	viper.SetDefault("RECENT_SYNC_MAX_CONCURRENT_ACCOUNTS", 3)
	viper.SetDefault("RECENT_SYNC_ACCOUNT_TIMEOUT_MINUTES", 10)
	viper.SetDefault("RECENT_SYNC_ENABLED", false)

	viper.SetDefault("APP_TIMEZONE", "America/Sao_Paulo")
	viper.SetDefault("LOG_LEVEL", "debug")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile() // ONLY LOCAL

	config := &Config{}

	// Configurar valores padrão
	SetDefaults()

	// Configurar o Viper
	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv() // Isso permite que o Viper leia variáveis de ambiente

	// Tentar ler o arquivo .env com o Viper (opcional, já que usamos godotenv)
	if err := viper.ReadInConfig(); err != nil {
		logrus.Info("Usando variáveis carregadas pelo godotenv (viper não conseguiu ler .env):", err)
	} else {
		logrus.Info("Arquivo .env lido pelo Viper com sucesso")
	}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
	)

	return config, nil
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	// Tentar várias localizações possíveis para o arquivo .env
	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../.env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		err := godotenv.Load(location)
		if err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Warn("Não foi possível carregar o arquivo .env de nenhuma localização conhecida")
}
