// Copyright Amazon.com, Inc. or its affiliates. All Rights Reserved.
// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strings"

	"irmas-audit/internal/paths"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Inputs   InputsConfig   `yaml:"inputs"`
	Output   OutputConfig   `yaml:"output"`
	Policy   PolicyConfig   `yaml:"policy"`
	Outdated OutdatedConfig `yaml:"outdated"`
	Dispatch DispatchConfig `yaml:"dispatch"`
	Server   ServerConfig   `yaml:"server"`
	Logger   LoggerConfig   `yaml:"logger"`
}

// InputsConfig locates the scraped detail reports.
type InputsConfig struct {
	BaseDir       string `yaml:"base_dir"`
	AntivirusFile string `yaml:"antivirus_file"`
	BannedFile    string `yaml:"banned_file"`
	OutdatedFile  string `yaml:"outdated_file"`
	// AddressBook is used as is when absolute or starting with ".",
	// otherwise it is resolved against BaseDir.
	AddressBook string `yaml:"address_book"`
}

// OutputConfig controls where and how artifacts are written.
type OutputConfig struct {
	Dir          string `yaml:"dir"`
	PageSize     int    `yaml:"page_size"`
	MessagesFile string `yaml:"messages_file"`
	MissingFile  string `yaml:"missing_file"`
	ReportFile   string `yaml:"report_file"`
}

// PolicyConfig holds organization-specific constants.
type PolicyConfig struct {
	ExpectedAntivirusIP string `yaml:"expected_antivirus_ip"`
}

// OutdatedConfig configures the version-policy scan.
type OutdatedConfig struct {
	PolicyFile   string `yaml:"policy_file"`
	InventoryDir string `yaml:"inventory_dir"`
}

// DispatchConfig configures copying artifacts into the sync folder.
type DispatchConfig struct {
	Enabled    bool   `yaml:"enabled"`
	FolderName string `yaml:"folder_name"`
}

// ServerConfig configures the read-only HTTP view.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggerConfig configures the zap logger and its optional rotating file sink.
type LoggerConfig struct {
	Level       string `yaml:"level"`
	Format      string `yaml:"format"`
	ServiceName string `yaml:"service_name"`
	LogFile     string `yaml:"log_file"`
	MaxSize     int    `yaml:"max_size"`
	MaxBackups  int    `yaml:"max_backups"`
	MaxAge      int    `yaml:"max_age"`
	Compress    bool   `yaml:"compress"`
	AddSource   bool   `yaml:"add_source"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	config := &Config{}

	config.Inputs.BaseDir = normalizePlatformPath("output/irmas")
	config.Inputs.AntivirusFile = "antivirus_detail_report.json"
	config.Inputs.BannedFile = "banned_softwares_detail_report.json"
	config.Inputs.OutdatedFile = "outdated_softwares_detail_report.json"
	config.Inputs.AddressBook = "address_book.json"

	config.Output.Dir = normalizePlatformPath("output/irmas/ready_for_dispatch")
	config.Output.PageSize = 50
	config.Output.MessagesFile = "irmas_messages.json"
	config.Output.MissingFile = "missing_contacts.json"
	config.Output.ReportFile = "irmas_report_searchable.html"

	config.Policy.ExpectedAntivirusIP = "10.173.105.3"

	config.Outdated.PolicyFile = normalizePlatformPath("config/software_policy.json")
	config.Outdated.InventoryDir = normalizePlatformPath("output/irmas/特定軟體清查分群")

	config.Dispatch.Enabled = false
	config.Dispatch.FolderName = "IrmasAutomate"

	config.Server.Addr = ":8080"

	config.Logger.Level = "info"
	config.Logger.Format = "console"
	config.Logger.ServiceName = "irmas-audit"
	config.Logger.MaxSize = 10
	config.Logger.MaxBackups = 3
	config.Logger.MaxAge = 28
	config.Logger.Compress = true

	return config
}

// LoadConfig loads configuration from the specified file path
func LoadConfig(configPath string) (*Config, error) {
	config := Default()

	// If no config file specified, return default config
	if configPath == "" {
		return config, nil
	}

	cleanPath := filepath.Clean(configPath)
	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	ApplyPlatformDefaults(config)

	if err := ValidateConfig(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// FindConfigFile looks for a configuration file in the working directory,
// then in the user configuration directory.
func FindConfigFile() string {
	for _, name := range []string{"irmas.yaml", "irmas.yml", "config.yaml"} {
		if fileExists(name) {
			return name
		}
	}

	standardConfig := paths.GetConfigFile()
	if fileExists(standardConfig) {
		return standardConfig
	}
	return ""
}

func fileExists(filename string) bool {
	info, err := os.Stat(filename)
	if os.IsNotExist(err) {
		return false
	}
	return err == nil && !info.IsDir()
}

func normalizePlatformPath(path string) string {
	if path == "" {
		return ""
	}
	return paths.NormalizePath(path)
}

// ValidateConfig rejects configurations the pipeline cannot run with.
func ValidateConfig(config *Config) error {
	if config == nil {
		return fmt.Errorf("configuration cannot be nil")
	}

	var errs []error
	if config.Output.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("output.page_size must be positive, got %d", config.Output.PageSize))
	}
	if net.ParseIP(config.Policy.ExpectedAntivirusIP) == nil {
		errs = append(errs, fmt.Errorf("policy.expected_antivirus_ip %q is not an IP address", config.Policy.ExpectedAntivirusIP))
	}
	switch config.Logger.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("logger.format must be console or json, got %q", config.Logger.Format))
	}
	for _, name := range []string{config.Output.MessagesFile, config.Output.MissingFile, config.Output.ReportFile} {
		if name != "" && filepath.Base(name) != name {
			errs = append(errs, fmt.Errorf("output file name %q must not contain a directory", name))
		}
	}
	for key, value := range map[string]string{
		"inputs.base_dir":        config.Inputs.BaseDir,
		"output.dir":             config.Output.Dir,
		"outdated.policy_file":   config.Outdated.PolicyFile,
		"outdated.inventory_dir": config.Outdated.InventoryDir,
		"logger.log_file":        config.Logger.LogFile,
	} {
		if err := paths.ValidatePath(value); err != nil {
			errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
		}
	}
	return errors.Join(errs...)
}

// ApplyPlatformDefaults normalizes every configured path for the current platform.
func ApplyPlatformDefaults(config *Config) {
	if config == nil {
		return
	}
	config.Inputs.BaseDir = normalizePlatformPath(config.Inputs.BaseDir)
	config.Output.Dir = normalizePlatformPath(config.Output.Dir)
	config.Outdated.PolicyFile = normalizePlatformPath(config.Outdated.PolicyFile)
	config.Outdated.InventoryDir = normalizePlatformPath(config.Outdated.InventoryDir)
	config.Logger.LogFile = normalizePlatformPath(config.Logger.LogFile)
}

// AddressBookPath resolves the address book location the way operators
// write it: absolute or explicitly relative paths are taken as is.
func (c *Config) AddressBookPath() string {
	return ResolveInput(c.Inputs.BaseDir, c.Inputs.AddressBook)
}

// ReportPath is where the HTML report is written, next to the inputs.
func (c *Config) ReportPath() string {
	return filepath.Join(c.Inputs.BaseDir, c.Output.ReportFile)
}

// ResolveInput joins name to baseDir unless name is absolute or starts with ".".
func ResolveInput(baseDir, name string) string {
	if filepath.IsAbs(name) || strings.HasPrefix(name, ".") {
		return name
	}
	return filepath.Join(baseDir, name)
}

// EnvPrefix is the prefix of environment overrides, e.g. IRMAS_OUTPUT_PAGE_SIZE.
const EnvPrefix = "IRMAS"

// NewViper returns a viper instance reading IRMAS_* environment variables
// with dotted keys mapped to underscores.
func NewViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Historical switch used by the scheduled job.
	_ = v.BindEnv("dispatch.enabled", "IRMAS_DISPATCH_ENABLED", "IRMAS_ONEDRIVE_DISPATCH")
	return v
}

// ApplyOverrides copies every key set in v (flag or environment) onto config
// and validates the result.
func ApplyOverrides(config *Config, v *viper.Viper) error {
	stringKeys := map[string]*string{
		"inputs.base_dir":              &config.Inputs.BaseDir,
		"inputs.antivirus_file":        &config.Inputs.AntivirusFile,
		"inputs.banned_file":           &config.Inputs.BannedFile,
		"inputs.outdated_file":         &config.Inputs.OutdatedFile,
		"inputs.address_book":          &config.Inputs.AddressBook,
		"output.dir":                   &config.Output.Dir,
		"output.messages_file":         &config.Output.MessagesFile,
		"output.missing_file":          &config.Output.MissingFile,
		"output.report_file":           &config.Output.ReportFile,
		"policy.expected_antivirus_ip": &config.Policy.ExpectedAntivirusIP,
		"outdated.policy_file":         &config.Outdated.PolicyFile,
		"outdated.inventory_dir":       &config.Outdated.InventoryDir,
		"dispatch.folder_name":         &config.Dispatch.FolderName,
		"server.addr":                  &config.Server.Addr,
		"logger.level":                 &config.Logger.Level,
		"logger.format":                &config.Logger.Format,
		"logger.log_file":              &config.Logger.LogFile,
	}
	for key, target := range stringKeys {
		if v.IsSet(key) {
			*target = v.GetString(key)
		}
	}
	if v.IsSet("output.page_size") {
		config.Output.PageSize = v.GetInt("output.page_size")
	}
	if v.IsSet("dispatch.enabled") {
		config.Dispatch.Enabled = v.GetBool("dispatch.enabled")
	}

	ApplyPlatformDefaults(config)
	return ValidateConfig(config)
}
