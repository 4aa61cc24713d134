// Package logger builds *slog.Logger values from functional options and injects
// request scoped attributes (request id, environment) through ContextExtractor
// callbacks evaluated on every record.
//
//	log := logger.New(
//	    logger.WithEnvironment(environment.Production, "app"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "server started", logger.Addr(addr))
package logger
