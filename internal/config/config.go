package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type Config struct {
	App          App          `mapstructure:",squash"`
	Server       Server       `mapstructure:",squash"`
	Database     Database     `mapstructure:",squash"`
	Auth         Auth         `mapstructure:",squash"`
	Pipeline     Pipeline     `mapstructure:",squash"`
	PipelineSync PipelineSync `mapstructure:",squash"`
	Export       Export       `mapstructure:",squash"`
}

type Server struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	AllowedOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN      string `mapstructure:"-"`
	Driver   string `mapstructure:"database_driver"`
	Password string `mapstructure:"database_password"`
	URL      string `mapstructure:"database_url"`
	User     string `mapstructure:"database_user"`
	SSLMode  string `mapstructure:"database_sslmode"`

	MaxOpenConns int `mapstructure:"database_max_open_conns"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
}

type Auth struct {
	Secret string `mapstructure:"auth_secret"`
}

// Pipeline controla a execução das transformações
type Pipeline struct {
	Cities       []string      `mapstructure:"pipeline_cities"`
	Parallel     bool          `mapstructure:"pipeline_parallel"`
	LockKey      int64         `mapstructure:"pipeline_lock_key"`
	AuditEnabled bool          `mapstructure:"pipeline_audit_enabled"`
	StageTimeout time.Duration `mapstructure:"pipeline_stage_timeout"`
}

type PipelineSync struct {
	CronSchedule string `mapstructure:"pipeline_sync_cron"`
	Enabled      bool   `mapstructure:"pipeline_sync_enabled"`
}

type Export struct {
	Dir         string `mapstructure:"export_dir"`
	XLSXEnabled bool   `mapstructure:"export_xlsx_enabled"`
	AfterSync   bool   `mapstructure:"export_after_sync"` // exporta após execuções agendadas ou manuais
}

func SetDefaults() {
	viper.SetDefault("HOST", "localhost")
	viper.SetDefault("PORT", 8000)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("DATABASE_URL", "localhost:5432/airbnb")
	viper.SetDefault("DATABASE_USER", "postgres")
	viper.SetDefault("DATABASE_PASSWORD", "postgres")
	viper.SetDefault("DATABASE_SSLMODE", "disable")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)

	viper.SetDefault("AUTH_SECRET", "")

	viper.SetDefault("PIPELINE_CITIES", "nyc,tokyo")
	viper.SetDefault("PIPELINE_PARALLEL", false)
	viper.SetDefault("PIPELINE_LOCK_KEY", 48151623)
	viper.SetDefault("PIPELINE_AUDIT_ENABLED", true)
	viper.SetDefault("PIPELINE_STAGE_TIMEOUT", "10m")

	viper.SetDefault("PIPELINE_SYNC_CRON", "0 3 * * *") // Todos os dias às 3h da manhã
	viper.SetDefault("PIPELINE_SYNC_ENABLED", false)

	viper.SetDefault("EXPORT_DIR", "./output")
	viper.SetDefault("EXPORT_XLSX_ENABLED", true)
	viper.SetDefault("EXPORT_AFTER_SYNC", true)

	viper.SetDefault("LOG_LEVEL", "info")
}

func NewConfig() (*Config, error) {
	// Primeiro carregar o arquivo .env usando godotenv
	loadEnvFile()

	SetDefaults()

	viper.SetConfigType("env")
	viper.SetConfigFile(".env")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		logrus.Debug("Usando variáveis de ambiente (viper não conseguiu ler .env): ", err)
	}

	return decode()
}

func decode() (*Config, error) {
	config := &Config{}

	err := viper.Unmarshal(&config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, err
	}

	config.Pipeline.Cities = normalizeCities(config.Pipeline.Cities)

	if err := config.ValidatePool(); err != nil {
		return nil, err
	}

	config.Database.DSN = fmt.Sprintf(
		"%s://%s:%s@%s?sslmode=%s",
		config.Database.Driver,
		config.Database.User,
		config.Database.Password,
		config.Database.URL,
		config.Database.SSLMode,
	)

	return config, nil
}

// Conexões simultâneas de uma execução: o advisory lock prende uma conexão e
// cada etapa em andamento abre uma transação. No modo paralelo até duas
// etapas independentes rodam juntas.
const (
	minSequentialConns = 2
	minParallelConns   = 3
)

// ValidatePool rejeita pools que travariam a execução. Zero significa sem limite.
func (c *Config) ValidatePool() error {
	db, pipeline := c.Database, c.Pipeline
	if db.MaxOpenConns <= 0 {
		return nil
	}

	required := minSequentialConns
	if pipeline.Parallel {
		required = minParallelConns
	}

	if db.MaxOpenConns < required {
		return fmt.Errorf(
			"DATABASE_MAX_OPEN_CONNS=%d insuficiente: o pipeline precisa de pelo menos %d conexões (PIPELINE_PARALLEL=%t)",
			db.MaxOpenConns, required, pipeline.Parallel,
		)
	}

	return nil
}

// normalizeCities remove espaços e entradas vazias, mantendo a ordem configurada
func normalizeCities(cities []string) []string {
	normalized := make([]string, 0, len(cities))
	seen := make(map[string]struct{}, len(cities))

	for _, city := range cities {
		city = strings.ToLower(strings.TrimSpace(city))
		if city == "" {
			continue
		}
		if _, dup := seen[city]; dup {
			continue
		}
		seen[city] = struct{}{}
		normalized = append(normalized, city)
	}

	return normalized
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),
		filepath.Join(filepath.Dir(cwd), ".env"),
		filepath.Join(cwd, "../../.env"),
	}

	for _, location := range locations {
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de: ", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
