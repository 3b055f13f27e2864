// Package logger provides structured logging for discoverykit using zerolog.
//
// Loggers are component-scoped and take structured fields as maps:
//
//	log := logger.Get("discovery")
//	log.Info("discovery client registered", logger.Fields(
//	    logger.FieldClientType, "EUREKA",
//	))
package logger
