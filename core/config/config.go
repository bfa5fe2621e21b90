package config

import (
	"fmt"
	"reflect"
	"strings"

	"excel-comparator/core/database"
	"excel-comparator/core/logger"
	"excel-comparator/core/source"
	"excel-comparator/core/storage"
	"excel-comparator/feature/compare"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Database holds configuration for the database connection.
	Database database.Config `mapstructure:"database"`
	// Files holds where source files live locally and remotely.
	Files source.Config `mapstructure:"files"`
	// Compare holds the default strategy and worker limit.
	Compare compare.Config `mapstructure:"compare"`

	// Prod, Staging1 and Staging2 are the named source profiles.
	Prod     source.Profile `mapstructure:"prod"`
	Staging1 source.Profile `mapstructure:"staging_1"`
	Staging2 source.Profile `mapstructure:"staging_2"`
}

// ProfileNames lists the profile names accepted by Profile, in order.
var ProfileNames = []string{"prod", "staging_1", "staging_2"}

// Profile returns the source profile called name.
func (c *Config) Profile(name string) (source.Profile, error) {
	switch strings.ToLower(name) {
	case "prod":
		return c.Prod, nil
	case "staging_1":
		return c.Staging1, nil
	case "staging_2":
		return c.Staging2, nil
	}
	return source.Profile{}, fmt.Errorf("unknown profile %q (want one of %s)", name, strings.Join(ProfileNames, ", "))
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. PROD_EXCELPATH -> prod.excelpath)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
