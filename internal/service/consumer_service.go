package service

import (
	"context"

	"github.com/ThreeDotsLabs/watermill/message"

	"requirements-assistant-be/internal/pkg/logger"
	"requirements-assistant-be/pkg/events"
)

// EventSink receives every event seen on the in-process bus, typically the NATS publisher.
type EventSink interface {
	Publish(ctx context.Context, event events.Event) error
}

type IConsumerService interface {
	Consume(ctx context.Context) error
}

type consumerService struct {
	subscriber message.Subscriber
	topicName  string
	sink       EventSink
	logger     logger.ILogger
}

// NewConsumerService forwards bus events to sink. A nil sink only logs them.
func NewConsumerService(
	subscriber message.Subscriber,
	topicName string,
	sink EventSink,
	log logger.ILogger,
) IConsumerService {
	return &consumerService{
		subscriber: subscriber,
		topicName:  topicName,
		sink:       sink,
		logger:     log,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	evt, err := events.Decode(msg.Payload)
	if err != nil {
		cs.logger.Error("EVENTS", "Dropping undecodable event", map[string]interface{}{
			"message_id": msg.UUID,
			"error":      err.Error(),
		})
		// Ack invalid messages to prevent infinite retry
		msg.Ack()
		return
	}

	details := map[string]interface{}{
		"type": evt.Type,
		"data": evt.Data,
	}

	if cs.sink == nil {
		cs.logger.Debug("EVENTS", "Event observed", details)
		msg.Ack()
		return
	}

	if err := cs.sink.Publish(ctx, evt); err != nil {
		details["error"] = err.Error()
		cs.logger.Warn("EVENTS", "Failed to forward event", details)
		msg.Ack()
		return
	}

	cs.logger.Debug("EVENTS", "Event forwarded", details)
	msg.Ack()
}
