package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

const (
	ConfigPathEnvVar  = "SNAPMOSAIC_CONFIG"
	FileLoggingEnvVar = "SNAPMOSAIC_FILE_LOGGING"
	LogFileEnvVar     = "SNAPMOSAIC_LOG_FILE"
	EnvFileEnvVar     = "SNAPMOSAIC_ENV"

	configFileName = AppName + ".json"
	logFileName    = "snapmosaic_debug.log"
)

type LoadOptions struct {
	ConfigPathOverride string
	LogFileOverride    string
}

// Environment holds process-level settings that live outside the JSON file.
type Environment struct {
	ConfigPath        string
	EnableFileLogging bool
	LogFile           string
}

func LoadEnvironment() Environment {
	return LoadEnvironmentWithOptions(LoadOptions{})
}

func LoadEnvironmentWithOptions(opts LoadOptions) Environment {
	// Sources in priority order:
	// 1) explicit options (command line)
	// 2) .env in the executable directory, or the file named by SNAPMOSAIC_ENV
	// 3) process environment
	envPath := resolveEnvPath()
	dotenvValues := readDotenvValues(envPath)
	if envPath != "" {
		_ = godotenv.Load(envPath)
	}

	return Environment{
		ConfigPath:        resolveValue(opts.ConfigPathOverride, dotenvValues, ConfigPathEnvVar, DefaultConfigPath()),
		EnableFileLogging: strings.ToLower(getEnvWithDefault(FileLoggingEnvVar, "false")) == "true",
		LogFile:           resolveValue(opts.LogFileOverride, dotenvValues, LogFileEnvVar, DefaultLogPath()),
	}
}

// DefaultConfigPath is {UserConfigDir}/SnapMosaic/SnapMosaic.json, falling back
// to the executable directory when no user config dir exists.
func DefaultConfigPath() string {
	return filepath.Join(appDir(), configFileName)
}

func DefaultLogPath() string {
	return filepath.Join(appDir(), logFileName)
}

func appDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, AppName)
	}
	if execPath, err := os.Executable(); err == nil {
		return filepath.Dir(execPath)
	}
	return "."
}

func resolveEnvPath() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}

	execDir := filepath.Dir(execPath)
	exeEnv := filepath.Join(execDir, ".env")
	if _, err := os.Stat(exeEnv); err == nil {
		return exeEnv
	}

	if alt := os.Getenv(EnvFileEnvVar); alt != "" {
		if _, err := os.Stat(alt); err == nil {
			return alt
		}
	}

	return ""
}

func readDotenvValues(envPath string) map[string]string {
	if envPath == "" {
		return map[string]string{}
	}

	values, err := godotenv.Read(envPath)
	if err != nil {
		return map[string]string{}
	}

	return values
}

func resolveValue(override string, dotenvValues map[string]string, key, fallback string) string {
	value := fallback

	if envValue := strings.TrimSpace(os.Getenv(key)); envValue != "" {
		value = envValue
	}

	if dotenvValue := strings.TrimSpace(dotenvValues[key]); dotenvValue != "" {
		value = dotenvValue
	}

	if o := strings.TrimSpace(override); o != "" {
		value = o
	}

	return value
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
