// Package config loads node settings from CLI flags, M5NODE_* environment
// variables and a TOML file, and watches that file for runtime changes.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/pelletier/go-toml/v2"
	"github.com/smazurov/m5node/internal/logging"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// EnvPrefix is prepended to every `env` struct tag.
const EnvPrefix = "M5NODE_"

// LoadConfig fills opts with precedence CLI flags > env vars > config file > defaults.
// opts must be a pointer to a struct; fields opt in through `toml:"a.b"` and
// `env:"A_B"` tags, and a string field named Config holds the TOML path.
// If cmd is provided, flags explicitly set via CLI are left untouched.
func LoadConfig(opts any, cmd *cobra.Command) error {
	v := reflect.ValueOf(opts)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("config: opts must be a pointer to a struct, got %T", opts)
	}
	v = v.Elem()
	t := v.Type()

	changedFlags := make(map[string]bool)
	if cmd != nil {
		// humacli registers options as persistent flags on the root
		markChanged := func(f *pflag.Flag) {
			if f.Changed {
				changedFlags[f.Name] = true
			}
		}
		cmd.Flags().VisitAll(markChanged)
		cmd.PersistentFlags().VisitAll(markChanged)
	}

	var configPath string
	if field := v.FieldByName("Config"); field.IsValid() && field.Kind() == reflect.String {
		configPath = field.String()
	}

	var file map[string]any
	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			// Running on defaults and env is fine
		case err != nil:
			return fmt.Errorf("failed to read config %s: %w", configPath, err)
		default:
			if err := toml.Unmarshal(data, &file); err != nil {
				return fmt.Errorf("failed to parse TOML config: %w", err)
			}
		}
	}

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if changedFlags[flagName(fieldType)] {
			continue
		}

		if tomlPath := fieldType.Tag.Get("toml"); tomlPath != "" && file != nil {
			if value := getNestedValue(file, tomlPath); value != nil {
				setFieldValue(field, value)
			}
		}

		if envKey := fieldType.Tag.Get("env"); envKey != "" {
			if envValue := os.Getenv(EnvPrefix + envKey); envValue != "" {
				setFieldValueFromString(field, envValue)
			}
		}
	}

	return nil
}

// flagName returns the CLI flag bound to a field: the `flag` tag when
// present, otherwise the kebab-cased field name that humacli derives.
func flagName(field reflect.StructField) string {
	if name := field.Tag.Get("flag"); name != "" {
		return name
	}
	return fieldNameToFlag(field.Name)
}

// fieldNameToFlag converts a struct field name to a CLI flag name.
// Example: "NatsURL" -> "nats-url", "Port" -> "port".
func fieldNameToFlag(fieldName string) string {
	runes := []rune(fieldName)
	var result []rune
	for i, r := range runes {
		if i > 0 && unicode.IsUpper(r) {
			prevLower := unicode.IsLower(runes[i-1])
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if prevLower || (nextLower && unicode.IsUpper(runes[i-1])) {
				result = append(result, '-')
			}
		}
		result = append(result, unicode.ToLower(r))
	}
	return string(result)
}

// getNestedValue retrieves a value from nested map using dot notation.
func getNestedValue(data map[string]any, path string) any {
	parts := strings.Split(path, ".")
	current := data

	for i, part := range parts {
		if i == len(parts)-1 {
			return current[part]
		}
		next, ok := current[part].(map[string]any)
		if !ok {
			return nil
		}
		current = next
	}
	return nil
}

// setFieldValue sets a field from a decoded TOML value.
func setFieldValue(field reflect.Value, value any) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		if s, ok := value.(string); ok {
			field.SetString(s)
		}
	case reflect.Bool:
		if b, ok := value.(bool); ok {
			field.SetBool(b)
		}
	case reflect.Int, reflect.Int64:
		switch n := value.(type) {
		case int64:
			field.SetInt(n)
		case int:
			field.SetInt(int64(n))
		}
	case reflect.Float64:
		switch n := value.(type) {
		case float64:
			field.SetFloat(n)
		case int64:
			field.SetFloat(float64(n))
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return
		}
		if arr, ok := value.([]any); ok {
			slice := make([]string, 0, len(arr))
			for _, item := range arr {
				if s, strOk := item.(string); strOk {
					slice = append(slice, s)
				}
			}
			field.Set(reflect.ValueOf(slice))
		}
	}
}

// setFieldValueFromString sets a field from an environment variable.
func setFieldValueFromString(field reflect.Value, value string) {
	if !field.CanSet() {
		return
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Bool:
		if b, err := strconv.ParseBool(value); err == nil {
			field.SetBool(b)
		}
	case reflect.Int, reflect.Int64:
		if i, err := strconv.ParseInt(value, 10, 64); err == nil {
			field.SetInt(i)
		}
	case reflect.Float64:
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			field.SetFloat(f)
		}
	case reflect.Slice:
		if field.Type().Elem().Kind() == reflect.String {
			parts := strings.Split(value, ",")
			slice := make([]string, len(parts))
			for i, part := range parts {
				slice[i] = strings.TrimSpace(part)
			}
			field.Set(reflect.ValueOf(slice))
		}
	}
}

// DefaultLoggingConfig is used when the file has no [logging] table.
func DefaultLoggingConfig() logging.Config {
	return logging.Config{
		Level:   "info",
		Format:  "text",
		Modules: make(map[string]string),
	}
}

// ReadLoggingConfig parses the [logging] table of a TOML file:
//
//	[logging]
//	level = "info"
//	format = "json"
//
//	[logging.modules]
//	dispatcher = "debug"
//
// Missing keys keep their defaults.
func ReadLoggingConfig(configPath string) (logging.Config, error) {
	cfg := DefaultLoggingConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	var raw struct {
		Logging struct {
			Level   string            `toml:"level"`
			Format  string            `toml:"format"`
			Modules map[string]string `toml:"modules"`
		} `toml:"logging"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return cfg, fmt.Errorf("failed to parse TOML config: %w", err)
	}

	if raw.Logging.Level != "" {
		cfg.Level = raw.Logging.Level
	}
	if raw.Logging.Format != "" {
		cfg.Format = raw.Logging.Format
	}
	for module, level := range raw.Logging.Modules {
		cfg.Modules[module] = level
	}
	return cfg, nil
}

// LoadLoggingConfig is ReadLoggingConfig that falls back to defaults on any error.
func LoadLoggingConfig(configPath string) logging.Config {
	if configPath == "" {
		return DefaultLoggingConfig()
	}
	cfg, err := ReadLoggingConfig(configPath)
	if err != nil {
		return DefaultLoggingConfig()
	}
	return cfg
}
