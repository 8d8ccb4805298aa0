// Package config provides centralized configuration loading for the
// ingestion CLI.
//
// Configuration is assembled from partial configs owned by the packages they
// describe (database, logger, storage, pipeline). Values come from environment
// variables and an optional .env file; defaults are declared as struct tags on
// the partial configs and bound into Viper by reflection.
//
// Nested keys map to environment variables by replacing dots with underscores,
// e.g. ingest.strategy is set via INGEST_STRATEGY.
package config
