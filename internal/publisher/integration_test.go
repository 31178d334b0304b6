//go:build integration

package publisher

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/rabbitmq"
	"github.com/testcontainers/testcontainers-go/wait"
)

type RabbitMQIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *rabbitmq.RabbitMQContainer
	amqpURL   string
	logger    *slog.Logger
}

func (s *RabbitMQIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()
	s.logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	container, err := rabbitmq.Run(s.ctx,
		"rabbitmq:3.13-management-alpine",
		testcontainers.WithWaitStrategy(
			wait.ForLog("Server startup complete").
				WithStartupTimeout(60*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	amqpURL, err := container.AmqpURL(s.ctx)
	s.Require().NoError(err)
	s.amqpURL = amqpURL
}

func (s *RabbitMQIntegrationSuite) TearDownSuite() {
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func TestRabbitMQIntegrationSuite(t *testing.T) {
	suite.Run(t, new(RabbitMQIntegrationSuite))
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Connection() {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange",
		RoutingKey: "test-routing-key",
		QueueName:  "test-queue",
	}

	pub, err := NewRabbitMQ(cfg, s.logger)
	s.NoError(err)
	s.NotNil(pub)

	err = pub.Close()
	s.NoError(err)
}

func (s *RabbitMQIntegrationSuite) newPublisher(name string) (*RabbitMQ, Config) {
	cfg := Config{
		URL:        s.amqpURL,
		Exchange:   "test-exchange-" + name,
		RoutingKey: "test-routing-key-" + name,
		QueueName:  "test-queue-" + name,
	}
	pub, err := NewRabbitMQ(cfg, s.logger)
	s.Require().NoError(err)
	return pub, cfg
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Upload() {
	pub, cfg := s.newPublisher("upload")
	defer pub.Close()

	err := pub.Upload(s.ctx, "lib:oai:1", []byte("<dc><title>One</title></dc>"))
	s.NoError(err)

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)
	s.Equal("application/json", msg.ContentType)
	s.Equal("lib:oai:1", msg.MessageId)
	s.Equal(ActionAdd, msg.Type)

	var received RecordMessage
	s.Require().NoError(json.Unmarshal(msg.Body, &received))
	s.Equal(ActionAdd, received.Action)
	s.Equal("lib:oai:1", received.Identifier)
	s.Equal("<dc><title>One</title></dc>", received.Payload)
	s.False(received.Timestamp.IsZero())
}

func (s *RabbitMQIntegrationSuite) TestPublisher_Delete() {
	pub, cfg := s.newPublisher("delete")
	defer pub.Close()

	s.NoError(pub.Delete(s.ctx, "lib:oai:2"))

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)

	var received RecordMessage
	s.Require().NoError(json.Unmarshal(msg.Body, &received))
	s.Equal(ActionDelete, received.Action)
	s.Equal("lib:oai:2", received.Identifier)
	s.Empty(received.Payload)
	s.NotContains(string(msg.Body), "payload")
}

func (s *RabbitMQIntegrationSuite) TestPublisher_MessagePersistence() {
	pub, cfg := s.newPublisher("persist")
	defer pub.Close()

	s.NoError(pub.Upload(s.ctx, "lib:oai:3", []byte("<dc/>")))

	msg := s.consumeMessage(cfg)
	s.Require().NotNil(msg)
	s.Equal(uint8(amqp.Persistent), msg.DeliveryMode)
}

func (s *RabbitMQIntegrationSuite) consumeMessage(cfg Config) *amqp.Delivery {
	conn, err := amqp.Dial(s.amqpURL)
	s.Require().NoError(err)
	defer conn.Close()

	ch, err := conn.Channel()
	s.Require().NoError(err)
	defer ch.Close()

	msgs, err := ch.Consume(cfg.QueueName, "", true, false, false, false, nil)
	s.Require().NoError(err)

	select {
	case msg := <-msgs:
		return &msg
	case <-time.After(5 * time.Second):
		s.Fail("Timeout waiting for message")
		return nil
	}
}