// Package logger builds log/slog loggers with environment presets and
// context extractors.
//
// Extractors run for every record and add request-scoped attributes, such as
// the request id set by pkg/requestid:
//
//	log := logger.New(
//		logger.WithEnvironment(environment.Production, "portalsso"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "token issued", logger.Component("sso"), logger.UserID(id))
//
// Attribute helpers return an empty slog.Attr for empty input, which slog omits.
package logger
