package notify

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/cyphera/passkey-wallet/internal/logger"
	"go.uber.org/zap"
)

// Reasons attached to pass updates.
const (
	ReasonDeposit      = "deposit"
	ReasonRegistration = "registration"
)

// Update asks the pass renderer to refresh the pass identified by Serial.
type Update struct {
	Serial  string    `json:"serial"`
	Reason  string    `json:"reason"`
	ChainID int64     `json:"chain_id,omitempty"`
	TxHash  string    `json:"tx_hash,omitempty"`
	At      time.Time `json:"at"`
}

// Notifier dispatches pass updates. Delivery is fire-and-forget: failures are
// logged by the implementation and never returned to the caller.
type Notifier interface {
	NotifyUpdate(ctx context.Context, update Update)
}

// SQSAPI is the subset of the SQS client used by SQSNotifier.
type SQSAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSNotifier publishes updates to a queue consumed by the push dispatcher.
type SQSNotifier struct {
	client   SQSAPI
	queueURL string
	logger   *zap.Logger
}

func NewSQSNotifier(client SQSAPI, queueURL string) *SQSNotifier {
	return &SQSNotifier{
		client:   client,
		queueURL: queueURL,
		logger:   logger.With(zap.String("component", "pass_notifier")),
	}
}

// NewSQSNotifierFromEnv loads the default AWS config and builds an SQS backed notifier.
func NewSQSNotifierFromEnv(ctx context.Context, queueURL string) (*SQSNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, err
	}
	return NewSQSNotifier(sqs.NewFromConfig(cfg), queueURL), nil
}

func (n *SQSNotifier) NotifyUpdate(ctx context.Context, update Update) {
	if update.At.IsZero() {
		update.At = time.Now().UTC()
	}
	body, err := json.Marshal(update)
	if err != nil {
		n.logger.Error("failed to marshal pass update", zap.Error(err))
		return
	}

	_, err = n.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(n.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"Serial": {
				StringValue: aws.String(update.Serial),
				DataType:    aws.String("String"),
			},
			"Reason": {
				StringValue: aws.String(update.Reason),
				DataType:    aws.String("String"),
			},
			"ChainID": {
				StringValue: aws.String(strconv.FormatInt(update.ChainID, 10)),
				DataType:    aws.String("Number"),
			},
		},
	})
	if err != nil {
		n.logger.Warn("failed to send pass update",
			zap.String("serial", update.Serial),
			zap.String("reason", update.Reason),
			zap.Error(err),
		)
		return
	}
	n.logger.Debug("pass update queued", zap.String("serial", update.Serial), zap.String("reason", update.Reason))
}

// LogNotifier only logs updates. Used when no queue is configured.
type LogNotifier struct{}

func (LogNotifier) NotifyUpdate(_ context.Context, update Update) {
	logger.Info("pass update",
		zap.String("serial", update.Serial),
		zap.String("reason", update.Reason),
		zap.Int64("chain_id", update.ChainID),
		zap.String("tx_hash", update.TxHash),
	)
}
