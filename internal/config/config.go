package config

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

// AppConfig configuración de la aplicación
type AppConfig struct {
	Server  ServerConfig  `toml:"server"`
	Data    DataConfig    `toml:"data"`
	Excel   ExcelConfig   `toml:"excel"`
	Remote  RemoteConfig  `toml:"remote"`
	Offline OfflineConfig `toml:"offline"`
}

// ServerConfig configuración del servidor
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
}

// DataConfig configuración de datos
type DataConfig struct {
	DataDir string `toml:"data_dir"`
}

// ExcelConfig origen de la plantilla del listado de chequeo
type ExcelConfig struct {
	TemplatePath string `toml:"template_path"`
	TemplateURL  string `toml:"template_url"`
}

// RemoteConfig backend relacional alojado
type RemoteConfig struct {
	BaseURL          string `toml:"base_url"`
	APIKey           string `toml:"api_key"`
	ProbeIntervalSec int    `toml:"probe_interval_sec"`
}

// OfflineConfig parámetros del gestor de cola sin conexión
type OfflineConfig struct {
	MaxRetries      int     `toml:"max_retries"`
	InitialDelaySec int     `toml:"initial_delay_sec"`
	BackoffFactor   float64 `toml:"backoff_factor"`
	TimeoutSec      int     `toml:"timeout_sec"`
	ReplayTickSec   int     `toml:"replay_tick_sec"`
}

// DefaultConfig configuración por defecto
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:    20840,
			DevMode: false,
		},
		Data: DataConfig{
			DataDir: "data",
		},
		Excel: ExcelConfig{
			TemplatePath: "",
			TemplateURL:  "",
		},
		Remote: RemoteConfig{
			ProbeIntervalSec: 30,
		},
		Offline: OfflineConfig{
			MaxRetries:      3,
			InitialDelaySec: 2,
			BackoffFactor:   2.0,
			TimeoutSec:      15,
			ReplayTickSec:   60,
		},
	}
}

// GetExeDir directorio del ejecutable
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

// LoadConfig carga config.toml desde el directorio del ejecutable
func LoadConfig() (*AppConfig, error) {
	config := DefaultConfig()

	exeDir, err := GetExeDir()
	if err != nil {
		// Sin directorio del ejecutable, usar el directorio actual
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			// Sin archivo de configuración, usar valores por defecto
			applyEnvOverrides(config)
			return config, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, config); err != nil {
		return nil, err
	}

	applyEnvOverrides(config)
	return config, nil
}

// applyEnvOverrides variables de entorno para ejecución local y E2E
func applyEnvOverrides(config *AppConfig) {
	if v := os.Getenv("EDUBUGA_TEMPLATE_XLSX"); v != "" {
		config.Excel.TemplatePath = v
	}
	if v := os.Getenv("EDUBUGA_TEMPLATE_URL"); v != "" {
		config.Excel.TemplateURL = v
	}
	if v := os.Getenv("EDUBUGA_REMOTE_URL"); v != "" {
		config.Remote.BaseURL = v
	}
	if v := os.Getenv("EDUBUGA_REMOTE_KEY"); v != "" {
		config.Remote.APIKey = v
	}
}

// SaveConfig guarda la configuración en config.toml
func SaveConfig(config *AppConfig) error {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	configPath := filepath.Join(exeDir, "config.toml")

	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	return os.WriteFile(configPath, data, 0644)
}

// EnsureDataDir asegura el directorio de datos junto al ejecutable
func EnsureDataDir(config *AppConfig) (string, error) {
	exeDir, err := GetExeDir()
	if err != nil {
		exeDir = "."
	}

	dataDir := filepath.Join(exeDir, config.Data.DataDir)

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return "", err
	}

	// Subdirectorios de trabajo
	subdirs := []string{"uploads", "exports"}
	for _, subdir := range subdirs {
		path := filepath.Join(dataDir, subdir)
		if err := os.MkdirAll(path, 0755); err != nil {
			return "", err
		}
	}

	return dataDir, nil
}
