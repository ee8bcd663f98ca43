package rabbitmq

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"productapi/internal/models"

	amqp "github.com/streadway/amqp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockChannel struct {
	mock.Mock
}

func (m *MockChannel) QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error) {
	a := m.Called(name, durable)
	return amqp.Queue{Name: name}, a.Error(0)
}

func (m *MockChannel) Publish(exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error {
	a := m.Called(exchange, key, msg)
	return a.Error(0)
}

func (m *MockChannel) Consume(queue, consumer string, autoAck, exclusive, noLocal, noWait bool, args amqp.Table) (<-chan amqp.Delivery, error) {
	a := m.Called(queue, autoAck)
	if a.Get(0) == nil {
		return nil, a.Error(1)
	}
	return a.Get(0).(<-chan amqp.Delivery), a.Error(1)
}

func (m *MockChannel) Close() error {
	return m.Called().Error(0)
}

func TestPublishProductEvent(t *testing.T) {
	ch := new(MockChannel)
	ch.On("QueueDeclare", DefaultQueue, true).Return(nil).Once()

	client, err := newClientWithChannel(ch, "")
	require.NoError(t, err)

	event := models.ProductEvent{
		Type:       models.EventProductCreated,
		ProductID:  "p-1",
		Images:     []string{"https://cdn.example.com/products/a.png"},
		OccurredAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
	}
	ch.On("Publish", "", DefaultQueue, mock.MatchedBy(func(msg amqp.Publishing) bool {
		var got models.ProductEvent
		if err := json.Unmarshal(msg.Body, &got); err != nil {
			return false
		}
		return msg.ContentType == "application/json" &&
			msg.DeliveryMode == amqp.Persistent &&
			got.ProductID == "p-1" &&
			got.Type == models.EventProductCreated
	})).Return(nil).Once()

	require.NoError(t, client.PublishProductEvent(event))
	ch.AssertExpectations(t)
}

func TestPublishProductEvent_Error(t *testing.T) {
	ch := new(MockChannel)
	ch.On("QueueDeclare", "custom", true).Return(nil).Once()
	ch.On("Publish", "", "custom", mock.Anything).Return(errors.New("channel closed")).Once()

	client, err := newClientWithChannel(ch, "custom")
	require.NoError(t, err)

	err = client.PublishProductEvent(models.ProductEvent{Type: models.EventProductDeleted, ProductID: "p-2"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "channel closed")
}

func TestNewClientWithChannel_DeclareFails(t *testing.T) {
	ch := new(MockChannel)
	ch.On("QueueDeclare", DefaultQueue, true).Return(errors.New("access refused")).Once()

	_, err := newClientWithChannel(ch, "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to declare product_events")
}

func TestConsumeProductEvents_RegisterFails(t *testing.T) {
	ch := new(MockChannel)
	ch.On("QueueDeclare", DefaultQueue, true).Return(nil).Twice()
	ch.On("Consume", DefaultQueue, false).Return(nil, errors.New("no consumer slots")).Once()

	client, err := newClientWithChannel(ch, "")
	require.NoError(t, err)

	err = client.ConsumeProductEvents(HandleProductMessage)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to register consumer")
}

func TestHandleProductMessage(t *testing.T) {
	body, _ := json.Marshal(models.ProductEvent{Type: models.EventProductUpdated, ProductID: "p-3"})
	assert.NoError(t, HandleProductMessage(amqp.Delivery{Body: body}))

	assert.Error(t, HandleProductMessage(amqp.Delivery{Body: []byte("not json")}))
	assert.Error(t, HandleProductMessage(amqp.Delivery{Body: []byte(`{"type":"product.created"}`)}))
}

func TestClose(t *testing.T) {
	ch := new(MockChannel)
	ch.On("QueueDeclare", DefaultQueue, true).Return(nil).Once()
	ch.On("Close").Return(nil).Once()

	client, err := newClientWithChannel(ch, "")
	require.NoError(t, err)
	assert.NoError(t, client.Close())
	ch.AssertExpectations(t)
}
