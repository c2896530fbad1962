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
	"github.com/vfg2006/campaign-kpi-etl/internal/domain"
)

const (
	DriverMySQL    = "mysql"
	DriverPostgres = "postgres"
)

type Config struct {
	App      App      `mapstructure:",squash"`
	Server   Server   `mapstructure:",squash"`
	Database Database `mapstructure:",squash"`
	Loader   Loader   `mapstructure:",squash"`
	ETLSync  ETLSync  `mapstructure:",squash"`
}

type App struct {
	LogLevel string `mapstructure:"log_level"`
	Env      string `mapstructure:"app_env"`
}

type Server struct {
	Host        string   `mapstructure:"host"`
	Port        string   `mapstructure:"port"`
	CORSOrigins []string `mapstructure:"cors_allowed_origins"`
}

type Database struct {
	DSN            string        `mapstructure:"-"`
	Driver         string        `mapstructure:"database_driver"`
	Host           string        `mapstructure:"database_host"`
	Port           string        `mapstructure:"database_port"`
	User           string        `mapstructure:"database_user"`
	Password       string        `mapstructure:"database_password"`
	Name           string        `mapstructure:"database_name"`
	Params         string        `mapstructure:"database_params"`
	ConnectTimeout time.Duration `mapstructure:"database_connect_timeout"`
}

type Loader struct {
	InputFile   string `mapstructure:"etl_input_file"`
	TargetTable string `mapstructure:"loader_target_table"`
	BatchSize   int    `mapstructure:"loader_batch_size"`
}

type ETLSync struct {
	CronSchedule string `mapstructure:"etl_sync_cron"`
	Enabled      bool   `mapstructure:"etl_sync_enabled"`
}

// ConfigError lista as variáveis obrigatórias ausentes
type ConfigError struct {
	Missing []string
	Invalid []string
}

func (e *ConfigError) Error() string {
	parts := make([]string, 0, 2)
	if len(e.Missing) > 0 {
		parts = append(parts, "variáveis obrigatórias ausentes: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Invalid) > 0 {
		parts = append(parts, "valores inválidos: "+strings.Join(e.Invalid, ", "))
	}
	return "configuração inválida: " + strings.Join(parts, "; ")
}

func (e *ConfigError) Unwrap() error {
	return domain.ErrConfiguration
}

// requiredKeys não têm valor padrão: a ausência é erro de configuração
var requiredKeys = []string{
	"DATABASE_HOST",
	"DATABASE_PORT",
	"DATABASE_USER",
	"DATABASE_PASSWORD",
	"DATABASE_NAME",
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("HOST", "localhost")
	v.SetDefault("PORT", "8000")
	v.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	v.SetDefault("DATABASE_DRIVER", DriverMySQL)
	v.SetDefault("DATABASE_PARAMS", "")
	v.SetDefault("DATABASE_CONNECT_TIMEOUT", "10s")

	v.SetDefault("ETL_INPUT_FILE", "data/ad_campaigns.csv")
	v.SetDefault("LOADER_TARGET_TABLE", "fact_ads")
	v.SetDefault("LOADER_BATCH_SIZE", 500)

	v.SetDefault("ETL_SYNC_CRON", "0 2 * * *") // Todos os dias às 2h da manhã
	v.SetDefault("ETL_SYNC_ENABLED", false)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("APP_ENV", "development")
}

// NewConfig carrega o .env (se existir) e lê a configuração das variáveis de ambiente
func NewConfig() (*Config, error) {
	loadEnvFile() // ONLY LOCAL

	return Load()
}

// Load lê a configuração apenas das variáveis de ambiente já definidas
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	// Chaves sem default precisam de bind explícito para o Unmarshal enxergá-las
	for _, key := range requiredKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("erro ao associar variável %s: %w", key, err)
		}
	}

	config := &Config{}
	err := v.Unmarshal(config, viper.DecodeHook(
		mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	))
	if err != nil {
		return nil, &ConfigError{Invalid: []string{err.Error()}}
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	config.Database.DSN = config.Database.BuildDSN()

	return config, nil
}

// Validate verifica variáveis obrigatórias e valores fora do domínio
func (c *Config) Validate() error {
	cfgErr := &ConfigError{}

	required := map[string]string{
		"DATABASE_HOST":     c.Database.Host,
		"DATABASE_PORT":     c.Database.Port,
		"DATABASE_USER":     c.Database.User,
		"DATABASE_PASSWORD": c.Database.Password,
		"DATABASE_NAME":     c.Database.Name,
	}
	for _, key := range requiredKeys {
		if strings.TrimSpace(required[key]) == "" {
			cfgErr.Missing = append(cfgErr.Missing, key)
		}
	}

	switch c.Database.Driver {
	case DriverMySQL, DriverPostgres:
	default:
		cfgErr.Invalid = append(cfgErr.Invalid, fmt.Sprintf("DATABASE_DRIVER=%q", c.Database.Driver))
	}

	if c.Loader.BatchSize <= 0 {
		cfgErr.Invalid = append(cfgErr.Invalid, fmt.Sprintf("LOADER_BATCH_SIZE=%d", c.Loader.BatchSize))
	}

	if strings.TrimSpace(c.Loader.TargetTable) == "" {
		cfgErr.Invalid = append(cfgErr.Invalid, "LOADER_TARGET_TABLE vazio")
	}

	if len(cfgErr.Missing) > 0 || len(cfgErr.Invalid) > 0 {
		return cfgErr
	}
	return nil
}

// BuildDSN monta a string de conexão de acordo com o driver
func (d Database) BuildDSN() string {
	if d.Driver == DriverPostgres {
		dsn := fmt.Sprintf(
			"postgres://%s:%s@%s:%s/%s",
			d.User,
			d.Password,
			d.Host,
			d.Port,
			d.Name,
		)
		if d.Params != "" {
			dsn += "?" + d.Params
		}
		return dsn
	}

	// parseTime para DATE/DATETIME virem como time.Time; multiStatements fica desligado
	params := "parseTime=true"
	if d.ConnectTimeout > 0 {
		params += "&timeout=" + d.ConnectTimeout.String()
	}
	if d.Params != "" {
		params += "&" + d.Params
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%s)/%s?%s", d.User, d.Password, d.Host, d.Port, d.Name, params)
}

// Função auxiliar para carregar o arquivo .env usando godotenv
func loadEnvFile() {
	cwd, err := os.Getwd()
	if err != nil {
		logrus.Warn("Não foi possível obter o diretório atual:", err)
		return
	}

	locations := []string{
		filepath.Join(cwd, ".env"),               // Diretório atual
		filepath.Join(filepath.Dir(cwd), ".env"), // Diretório pai
		filepath.Join(cwd, "../../.env"),         // Dois diretórios acima
	}

	for _, location := range locations {
		logrus.Debug("Tentando carregar .env de:", location)
		if err := godotenv.Load(location); err == nil {
			logrus.Info("Arquivo .env carregado com sucesso de:", location)
			return
		}
	}

	logrus.Debug("Nenhum arquivo .env encontrado, usando apenas variáveis de ambiente")
}
