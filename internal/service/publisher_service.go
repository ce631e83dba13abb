package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"

	"requirements-assistant-be/internal/pkg/logger"
	"requirements-assistant-be/pkg/events"
)

// IPublisherService puts domain events on the in-process bus. Publishing
// happens after commit, so failures are logged and never undo a transition.
type IPublisherService interface {
	Publish(ctx context.Context, evts ...events.Event)
}

type publisherService struct {
	topicName string
	publisher message.Publisher
	logger    logger.ILogger
}

func NewPublisherService(topicName string, publisher message.Publisher, log logger.ILogger) IPublisherService {
	return &publisherService{
		topicName: topicName,
		publisher: publisher,
		logger:    log,
	}
}

func (ps *publisherService) Publish(ctx context.Context, evts ...events.Event) {
	for _, evt := range evts {
		payload, err := events.Encode(evt)
		if err != nil {
			ps.logger.Error("EVENTS", "Failed to encode event", map[string]interface{}{
				"type":  evt.EventType(),
				"error": err.Error(),
			})
			continue
		}

		msg := message.NewMessage(watermill.NewUUID(), payload)
		msg.SetContext(ctx)
		if err := ps.publisher.Publish(ps.topicName, msg); err != nil {
			ps.logger.Warn("EVENTS", "Failed to publish event", map[string]interface{}{
				"type":  evt.EventType(),
				"error": err.Error(),
			})
		}
	}
}
