// Package logger builds context-aware *slog.Logger instances.
//
// New applies functional options (format, level, static attributes, context
// extractors) and wraps the chosen slog handler with LogHandlerDecorator,
// which pulls request-scoped values such as the request id out of the
// context on every record.
//
//	log := logger.New(
//	    logger.WithEnvironment("production", "invitations"),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "invitation created",
//	    logger.InvitationID(inv.ID),
//	    logger.Principal(principal),
//	)
//
// Attribute helpers return an empty slog.Attr for nil or empty input, so
// they can be passed unconditionally.
package logger
