package whatsapp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/config"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/service/commands"
	client "github.com/mamadbah2/stockbook/pkg/clients/whatsapp"
)

const (
	sendTimeout = 10 * time.Second
	// seenCapacity bounds how many handled message IDs are remembered.
	seenCapacity = 1024
)

// MessagingService describes the operations the HTTP layer and scheduler can perform.
type MessagingService interface {
	VerifyWebhookToken(mode, verifyToken, challenge string) (string, error)
	HandleWebhook(ctx context.Context, payload models.WebhookPayload) error
	SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error
}

// MetaWhatsAppService is the production implementation backed by WhatsApp Cloud API.
type MetaWhatsAppService struct {
	cfg        config.WhatsAppConfig
	client     client.Client
	dispatcher commands.Dispatcher
	logger     *zap.Logger

	mu   sync.Mutex
	seen map[string]struct{}
	ring []string
}

// NewMetaWhatsAppService wires a new service instance.
func NewMetaWhatsAppService(cfg config.WhatsAppConfig, client client.Client, dispatcher commands.Dispatcher, logger *zap.Logger) *MetaWhatsAppService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MetaWhatsAppService{
		cfg:        cfg,
		client:     client,
		dispatcher: dispatcher,
		logger:     logger,
		seen:       make(map[string]struct{}, seenCapacity),
	}
}

// VerifyWebhookToken validates the callback verification token.
func (s *MetaWhatsAppService) VerifyWebhookToken(mode, verifyToken, challenge string) (string, error) {
	if mode == "" || verifyToken == "" {
		return "", errors.New("missing mode or verify token")
	}

	if !strings.EqualFold(mode, "subscribe") {
		return "", fmt.Errorf("unsupported hub.mode %s", mode)
	}

	if verifyToken != s.cfg.VerifyToken {
		return "", errors.New("invalid verify token")
	}

	return challenge, nil
}

// HandleWebhook answers every inbound text message. Processing continues
// past a failing message; the first dispatch failure is returned. A message
// ID that already took effect is skipped, and a reply that cannot be sent is
// only logged, so Meta redelivering the callback never repeats a command.
func (s *MetaWhatsAppService) HandleWebhook(ctx context.Context, payload models.WebhookPayload) error {
	var firstErr error

	for _, entry := range payload.Entry {
		for _, change := range entry.Changes {
			for _, msg := range change.Value.Messages {
				if err := s.handleInboundMessage(ctx, msg); err != nil {
					s.logger.Error("failed to handle inbound message", zap.Error(err), zap.String("message_id", msg.ID))
					if firstErr == nil {
						firstErr = err
					}
				}
			}
		}
	}

	return firstErr
}

func (s *MetaWhatsAppService) handleInboundMessage(ctx context.Context, msg models.InboundMessage) error {
	if msg.Text == nil || strings.TrimSpace(msg.Text.Body) == "" {
		s.logger.Debug("ignoring non-text message", zap.String("type", msg.Type), zap.String("message_id", msg.ID))
		return nil
	}

	cmd := models.ParseCommand(msg.Text.Body)
	s.logger.Info("parsed inbound command",
		zap.String("from", msg.From),
		zap.String("command", string(cmd.Type)),
		zap.Strings("args", cmd.Args))

	if s.handled(msg.ID) {
		s.logger.Info("ignoring redelivered message", zap.String("message_id", msg.ID))
		return nil
	}

	reply, err := s.dispatcher.HandleCommand(ctx, cmd, msg.From)
	switch {
	case errors.Is(err, commands.ErrUnsupportedCommand):
		reply = "Unknown command.\n" + commands.HelpText
	case errors.Is(err, commands.ErrInvalidArguments):
		reply = "Could not read that command.\n" + commands.HelpText
	case err != nil:
		// Persistence failures still get an answer so the sender knows to retry.
		if sendErr := s.send(ctx, msg.From, "Not recorded: the ledger could not be saved. Please try again."); sendErr != nil {
			s.logger.Warn("failed to send failure notice", zap.Error(sendErr))
		}
		return fmt.Errorf("dispatch %s: %w", cmd.Type, err)
	}

	// The command took effect; a redelivery must not run it again even if
	// the reply is lost.
	s.markHandled(msg.ID)
	if err := s.send(ctx, msg.From, reply); err != nil {
		s.logger.Error("failed to send reply", zap.String("message_id", msg.ID), zap.String("to", msg.From), zap.Error(err))
	}
	return nil
}

func (s *MetaWhatsAppService) handled(id string) bool {
	if id == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.seen[id]
	return ok
}

func (s *MetaWhatsAppService) markHandled(id string) {
	if id == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.seen[id]; ok {
		return
	}
	if len(s.ring) == seenCapacity {
		delete(s.seen, s.ring[0])
		s.ring = s.ring[1:]
	}
	s.seen[id] = struct{}{}
	s.ring = append(s.ring, id)
}

// SendOutbound pushes a notification such as the scheduled report.
func (s *MetaWhatsAppService) SendOutbound(ctx context.Context, req models.OutboundMessageRequest) error {
	if req.To == "" {
		return errors.New("outbound recipient must not be empty")
	}
	return s.send(ctx, req.To, req.Message)
}

func (s *MetaWhatsAppService) send(ctx context.Context, to, body string) error {
	ctxWithTimeout, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	id, err := s.client.SendText(ctxWithTimeout, to, body)
	if err != nil {
		return err
	}
	s.logger.Debug("message sent", zap.String("to", to), zap.String("message_id", id))
	return nil
}
