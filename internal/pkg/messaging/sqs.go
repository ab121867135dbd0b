package messaging

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsConfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/cmlabs-hris/hris-checkclock-go/internal/domain/checkclock"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
)

const EventTypeDecided = "attendance.decided"

// SQSClient is the subset of the SQS API the publisher needs.
type SQSClient interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSDecisionPublisher sends decision events to a queue behind a circuit breaker.
type SQSDecisionPublisher struct {
	client   SQSClient
	queueURL string
	cb       *gobreaker.CircuitBreaker
}

func NewSQSDecisionPublisher(client SQSClient, queueURL string) *SQSDecisionPublisher {
	settings := gobreaker.Settings{
		Name:        "decision-queue",
		MaxRequests: 5,
		Interval:    60 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 10 && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			slog.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
		},
	}

	return &SQSDecisionPublisher{
		client:   client,
		queueURL: queueURL,
		cb:       gobreaker.NewCircuitBreaker(settings),
	}
}

// PublishDecision implements checkclock.DecisionPublisher.
func (p *SQSDecisionPublisher) PublishDecision(ctx context.Context, event checkclock.DecisionEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal decision event: %w", err)
	}

	attributes := injectTraceContext(ctx)
	attributes["EventType"] = types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String(EventTypeDecided),
	}

	_, err = p.cb.Execute(func() (interface{}, error) {
		return p.client.SendMessage(ctx, &sqs.SendMessageInput{
			QueueUrl:          aws.String(p.queueURL),
			MessageBody:       aws.String(string(body)),
			MessageAttributes: attributes,
		})
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return fmt.Errorf("decision queue unavailable: %w", err)
		}
		return fmt.Errorf("failed to send decision event: %w", err)
	}
	return nil
}

// NoopPublisher drops events. It is used when no queue is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishDecision(context.Context, checkclock.DecisionEvent) error { return nil }

// NewDecisionPublisher returns an SQS publisher for queueURL, or a NoopPublisher
// when queueURL is empty. A non-empty endpoint routes calls to a local SQS
// emulator with static credentials.
func NewDecisionPublisher(ctx context.Context, region, endpoint, queueURL string) (checkclock.DecisionPublisher, error) {
	if queueURL == "" {
		slog.Info("Decision queue not configured, decision events will not be published")
		return NoopPublisher{}, nil
	}

	opts := []func(*awsConfig.LoadOptions) error{awsConfig.WithRegion(region)}
	if endpoint != "" {
		opts = append(opts, awsConfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider("test", "test", "")))
	}
	awsCfg, err := awsConfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS config: %w", err)
	}

	client := sqs.NewFromConfig(awsCfg, func(o *sqs.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})
	return NewSQSDecisionPublisher(client, queueURL), nil
}

func injectTraceContext(ctx context.Context) map[string]types.MessageAttributeValue {
	attrs := make(map[string]types.MessageAttributeValue)
	otel.GetTextMapPropagator().Inject(ctx, sqsCarrier{attrs: attrs})
	return attrs
}

// sqsCarrier adapts message attributes to propagation.TextMapCarrier.
type sqsCarrier struct {
	attrs map[string]types.MessageAttributeValue
}

func (c sqsCarrier) Get(key string) string {
	if attr, ok := c.attrs[key]; ok && attr.StringValue != nil {
		return *attr.StringValue
	}
	return ""
}

func (c sqsCarrier) Set(key string, value string) {
	c.attrs[key] = types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String(value),
	}
}

func (c sqsCarrier) Keys() []string {
	keys := make([]string, 0, len(c.attrs))
	for k := range c.attrs {
		keys = append(keys, k)
	}
	return keys
}
