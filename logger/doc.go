// Package logger provides structured logging for the identity core using
// zerolog.
//
// It supports JSON and console output, log level configuration, and
// component-scoped loggers with structured fields. Authentication failures are
// logged at debug level only; token contents are never logged.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.NewDefault("nazonexus-api").WithComponent("auth")
//	log.Debug("token rejected", logger.Fields(logger.FieldReason, "expired"))
package logger
