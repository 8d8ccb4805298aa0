// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) for the ingestion CLI and its subsystems.
//
// # Context Awareness
//
// Every label is identified by a document GUID. The WithDocument helper attaches
// that GUID to the logger so all entries emitted while processing one document
// can be correlated, including decoder diagnostics and store failures.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Ingestion started")
//
//	// While processing a document:
//	l := logger.WithDocument(log, doc.DocumentGUID)
//	l.Warn("Malformed section id", zap.String("raw", raw))
package logger
