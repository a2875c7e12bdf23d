package responder

import (
	"encoding/json"
	"sync"

	"github.com/mini-maxit/grader/internal/logger"
	"github.com/mini-maxit/grader/internal/rabbitmq/channel"
	"github.com/mini-maxit/grader/pkg/languages"
	"github.com/mini-maxit/grader/pkg/messages"
	"github.com/mini-maxit/grader/pkg/solution"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

type Responder interface {
	PublishErrorToResponseQueue(
		messageType, messageID, responseQueue string,
		err error,
	)
	PublishSuccessHandshakeRespond(
		messageType, messageID, responseQueue string,
		languageSpecs []languages.LanguageSpec,
	) error
	PublishSuccessStatusRespond(
		messageType, messageID, responseQueue string,
		statusMap map[string]any,
	) error
	PublishSuccessEvaluationRespond(
		messageType, messageID, responseQueue string,
		evaluation solution.QuestionEvaluation,
	) error
}

type responder struct {
	mu      sync.Mutex
	logger  *zap.SugaredLogger
	channel channel.Channel
}

func NewResponder(ch channel.Channel) Responder {
	return &responder{
		logger:  logger.NewNamedLogger("responder"),
		channel: ch,
	}
}

func (r *responder) PublishErrorToResponseQueue(messageType, messageID, responseQueue string, err error) {
	errorPayload := map[string]string{"error": err.Error()}
	payload, jsonErr := json.Marshal(errorPayload)
	if jsonErr != nil {
		r.logger.Errorf("Failed to marshal error payload: %s", jsonErr)
		return
	}

	if pubErr := r.publish(messageType, messageID, responseQueue, false, payload); pubErr != nil {
		r.logger.Errorf("Failed to publish error message [MsgID: %s]: %s", messageID, pubErr)
		return
	}

	r.logger.Infof("Published error message to %s [MsgID: %s]", responseQueue, messageID)
}

func (r *responder) PublishSuccessEvaluationRespond(
	messageType, messageID, responseQueue string,
	evaluation solution.QuestionEvaluation,
) error {
	payload, err := json.Marshal(evaluation)
	if err != nil {
		return err
	}

	return r.publish(messageType, messageID, responseQueue, true, payload)
}

func (r *responder) PublishSuccessHandshakeRespond(
	messageType, messageID, responseQueue string,
	languageSpecs []languages.LanguageSpec,
) error {
	handshakePayload := struct {
		Languages []languages.LanguageSpec `json:"languages"`
	}{
		Languages: languageSpecs,
	}

	payload, err := json.Marshal(handshakePayload)
	if err != nil {
		return err
	}

	return r.publish(messageType, messageID, responseQueue, true, payload)
}

func (r *responder) PublishSuccessStatusRespond(
	messageType, messageID, responseQueue string,
	statusMap map[string]any,
) error {
	payload, err := json.Marshal(statusMap)
	if err != nil {
		return err
	}

	return r.publish(messageType, messageID, responseQueue, true, payload)
}

func (r *responder) publish(messageType, messageID, responseQueue string, ok bool, payload []byte) error {
	queueMessage := messages.ResponseQueueMessage{
		Type:      messageType,
		MessageID: messageID,
		Ok:        ok,
		Payload:   payload,
	}

	responseJSON, err := json.Marshal(queueMessage)
	if err != nil {
		return err
	}

	// amqp channels must not be shared by concurrent publishers.
	r.mu.Lock()
	defer r.mu.Unlock()

	r.logger.Debugf("Publishing %s response to %s [MsgID: %s]", messageType, responseQueue, messageID)
	return r.channel.Publish("", responseQueue, false, false, amqp.Publishing{
		ContentType:   "application/json",
		CorrelationId: messageID,
		Body:          responseJSON,
	})
}
