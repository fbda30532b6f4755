package logging

import (
	"fmt"

	"jobprospect/internal/config"
	"jobprospect/internal/logging/adapters"
	"jobprospect/internal/logging/types"
)

// Manager manages the logging system initialization and configuration
type Manager struct {
	logger *MultiLogger
}

// NewManager creates a new logging manager
func NewManager() *Manager {
	return &Manager{
		logger: NewMultiLogger(),
	}
}

// Initialize initializes the logging system from configuration
func (m *Manager) Initialize(cfg *config.Config) error {
	m.logger.SetLevel(ParseLogLevel(cfg.Logging.Level))

	if len(cfg.Logging.Adapters) == 0 {
		// No adapter configuration: log to stdout in the configured format
		adapter := adapters.NewStdoutAdapter("stdout", adapters.StdoutConfig{
			Format: cfg.Logging.Format,
		})
		return m.logger.AddAdapter(adapter)
	}

	for _, adapterConfig := range cfg.Logging.Adapters {
		if !adapterConfig.Enabled {
			continue
		}

		adapter, err := m.createAdapter(adapterConfig.Name, adapterConfig.Type, adapterConfig.Options)
		if err != nil {
			return fmt.Errorf("failed to create adapter %s: %w", adapterConfig.Name, err)
		}

		if err := m.logger.AddAdapter(adapter); err != nil {
			return fmt.Errorf("failed to add adapter %s: %w", adapterConfig.Name, err)
		}
	}

	return nil
}

// createAdapter builds an adapter from its configured type and options.
func (m *Manager) createAdapter(name, adapterType string, options map[string]interface{}) (types.LogAdapter, error) {
	switch adapterType {
	case "stdout":
		return adapters.NewStdoutAdapter(name, adapters.StdoutConfig{
			Format: getStringOption(options, "format", "json"),
		}), nil
	case "file":
		return adapters.NewFileAdapter(name, adapters.FileConfig{
			FilePath:   getStringOption(options, "file_path", ""),
			Format:     getStringOption(options, "format", "json"),
			CreateDirs: getBoolOption(options, "create_dirs", true),
		})
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", adapterType)
	}
}

// GetLogger returns the initialized logger
func (m *Manager) GetLogger() Logger {
	return m.logger
}

// Close closes the logging system
func (m *Manager) Close() error {
	if m.logger != nil {
		return m.logger.Close()
	}
	return nil
}

func getStringOption(options map[string]interface{}, key string, defaultValue string) string {
	if value, exists := options[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

func getBoolOption(options map[string]interface{}, key string, defaultValue bool) bool {
	if value, exists := options[key]; exists {
		if boolVal, ok := value.(bool); ok {
			return boolVal
		}
	}
	return defaultValue
}

// Global manager instance
var globalManager *Manager

// InitializeLogging initializes the global logging system
func InitializeLogging(cfg *config.Config) error {
	globalManager = NewManager()
	return globalManager.Initialize(cfg)
}

// GetGlobalLogger returns the global logger instance
func GetGlobalLogger() Logger {
	if globalManager == nil {
		// Fallback to a basic stdout logger if not initialized
		manager := NewManager()
		adapter := adapters.NewStdoutAdapter("fallback_stdout", adapters.StdoutConfig{Format: "json"})
		_ = manager.logger.AddAdapter(adapter)
		globalManager = manager
	}
	return globalManager.GetLogger()
}

// CloseLogging closes the global logging system
func CloseLogging() error {
	if globalManager != nil {
		return globalManager.Close()
	}
	return nil
}
