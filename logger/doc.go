// Package logger provides structured logging using zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers, and an asynchronous front (Async) used wherever logging must never
// block the caller, such as the provider failure hook.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  async_buffer: 256
//
// # Usage
//
//	logger.Init(cfg)
//	logger.RegisterDefaults()
//	log := logger.Get(logger.ComponentProvider)
//	log.Error("service make failed", logger.Fields("service", name))
//
//	hook := logger.NewAsync(log, 256)
//	defer hook.Close()
package logger
