// Package logger provides structured logging for beankit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers with structured fields. Containers log through a
// *Logger tagged with their container ID.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("container")
//	log.Debug("component cached", logger.Fields("component", "userService"))
package logger
