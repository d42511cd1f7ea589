package service

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/spec-kit/access-gateway/internal/events"
)

// AuditService writes authentication and access events to the audit log.
type AuditService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
}

// NewAuditService creates the service.
func NewAuditService(dispatcher events.Dispatcher, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{
		dispatcher: dispatcher,
		logger:     logger.Named("audit"),
	}
}

// RegisterHandlers subscribes to every audit event type.
func (a *AuditService) RegisterHandlers() {
	if a.dispatcher == nil {
		return
	}
	for _, et := range events.All() {
		a.dispatcher.Subscribe(et, a.handle)
	}
}

func (a *AuditService) handle(_ context.Context, event events.Event) error {
	level := zapcore.InfoLevel
	switch event.Type {
	case events.EventLoginFailed, events.EventLoginThrottled:
		level = zapcore.WarnLevel
	case events.EventAccessDenied:
		level = zapcore.DebugLevel
	}

	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.Time("at", event.Timestamp),
		zap.String("ip", event.Actor.IP),
	}
	if event.Actor.UserID != nil {
		fields = append(fields, zap.Int64("user_id", *event.Actor.UserID))
	}
	if event.Actor.Email != "" {
		fields = append(fields, zap.String("email", event.Actor.Email))
	}
	if event.Actor.Role != "" {
		fields = append(fields, zap.String("role", string(event.Actor.Role)))
	}
	if event.Payload != nil {
		fields = append(fields, zap.Any("payload", event.Payload))
	}

	a.logger.Log(level, string(event.Type), fields...)
	return nil
}
