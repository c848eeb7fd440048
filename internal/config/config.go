package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration, shared by both servers.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Data    DataConfig    `mapstructure:"data"`
	Payroll PayrollConfig `mapstructure:"payroll"`
	Players PlayersConfig `mapstructure:"players"`
	Logger  LoggerConfig  `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DataConfig locates the flat data files.
type DataConfig struct {
	Dir            string `mapstructure:"dir"`
	EmployeesFile  string `mapstructure:"employees_file"`
	AttendanceFile string `mapstructure:"attendance_file"`
	PlayersFile    string `mapstructure:"players_file"`
	ConditionsFile string `mapstructure:"conditions_file"`
	PhysicalsFile  string `mapstructure:"physicals_file"`
}

// EmployeesPath is the roster file location.
func (d DataConfig) EmployeesPath() string { return filepath.Join(d.Dir, d.EmployeesFile) }

// AttendancePath is the default attendance file location.
func (d DataConfig) AttendancePath() string { return filepath.Join(d.Dir, d.AttendanceFile) }

// PlayersPath is the player master file location.
func (d DataConfig) PlayersPath() string { return filepath.Join(d.Dir, d.PlayersFile) }

// ConditionsPath is the daily condition log location.
func (d DataConfig) ConditionsPath() string { return filepath.Join(d.Dir, d.ConditionsFile) }

// PhysicalsPath is the physical test log location.
func (d DataConfig) PhysicalsPath() string { return filepath.Join(d.Dir, d.PhysicalsFile) }

// PayrollConfig holds payroll-side settings.
type PayrollConfig struct {
	CompanyName    string `mapstructure:"company_name"`
	OriginatorName string `mapstructure:"originator_name"` // half-width kana
	OriginatorCode string `mapstructure:"originator_code"` // 10-digit numeric
	PayslipFont    string `mapstructure:"payslip_font"`    // optional TTF path
}

// PlayersConfig holds condition-tracker settings.
type PlayersConfig struct {
	AdminPassword string        `mapstructure:"admin_password"`
	SessionTTL    time.Duration `mapstructure:"session_ttl"`
	ImageDir      string        `mapstructure:"image_dir"`
}

// LoggerConfig holds logger configuration.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables. A
// missing config file is fine; defaults and env vars still apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BACKOFFICE")
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 30*time.Second)
	v.SetDefault("server.write_timeout", 30*time.Second)

	v.SetDefault("data.dir", "data")
	v.SetDefault("data.employees_file", "employees.csv")
	v.SetDefault("data.attendance_file", "attendance_input.csv")
	v.SetDefault("data.players_file", "player_master.csv")
	v.SetDefault("data.conditions_file", "daily_condition.csv")
	v.SetDefault("data.physicals_file", "physical_tests.csv")

	v.SetDefault("payroll.company_name", "Vibe Coding Inc.")
	v.SetDefault("payroll.originator_name", "ｶ)ﾊﾞｲﾌﾞｺｰﾃﾞｨﾝｸﾞ")
	v.SetDefault("payroll.originator_code", "1234567890")
	v.SetDefault("payroll.payslip_font", "")

	v.SetDefault("players.admin_password", "admin123")
	v.SetDefault("players.session_ttl", 12*time.Hour)
	v.SetDefault("players.image_dir", "player_images")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.output_path", "stdout")
	v.SetDefault("logger.format", "console")
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server port %d out of range", c.Server.Port)
	}
	if c.Data.Dir == "" {
		return errors.New("data dir must not be empty")
	}
	if c.Players.AdminPassword == "" {
		return errors.New("players admin_password must not be empty")
	}
	if c.Players.SessionTTL <= 0 {
		return errors.New("players session_ttl must be positive")
	}
	return nil
}
