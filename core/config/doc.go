// Package config provides configuration management for the Excel Comparator.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Files: local directory and remote prefix of the source files
//   - Compare: default strategy and worker limit
//   - Prod, Staging1, Staging2: source profiles (PROD_EXCELPATH, STAGING_1_SHEETNAME, ...)
//   - Database: MySQL or SQLite connection details
//   - Storage: S3/MinIO credentials and bucket settings
//   - Log: Logging level and format
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	prod, _ := cfg.Profile("prod")
package config
