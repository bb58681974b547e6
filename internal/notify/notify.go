package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/sns/types"

	"github.com/pennsieve/dashboard-widget-service/internal/errors"
	"github.com/pennsieve/dashboard-widget-service/internal/models"
)

// SNS subjects are limited to 100 characters
const maxSubjectLength = 100

type PublishAPI interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Notifier interface {
	Notify(ctx context.Context, submission models.Submission) (string, error)
}

type SNSNotifier struct {
	client   PublishAPI
	topicArn string
}

func NewSNSNotifier(client PublishAPI, topicArn string) *SNSNotifier {
	return &SNSNotifier{
		client:   client,
		topicArn: strings.TrimSpace(topicArn),
	}
}

// Notify publishes the submission and returns the SNS message id. The MFA code is not
// part of the message.
func (n *SNSNotifier) Notify(ctx context.Context, submission models.Submission) (string, error) {
	if n.topicArn == "" {
		return "", errors.ErrTopicNotConfigured
	}

	out, err := n.client.Publish(ctx, &sns.PublishInput{
		TopicArn: aws.String(n.topicArn),
		Subject:  aws.String(Subject(submission)),
		Message:  aws.String(Message(submission)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"client":         stringAttribute(submission.Client),
			"approver_email": stringAttribute(submission.ApproverEmail),
		},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %w", errors.ErrPublishFailed, err)
	}
	return aws.ToString(out.MessageId), nil
}

// SNS rejects empty string attribute values
func stringAttribute(value string) types.MessageAttributeValue {
	if value == "" {
		value = "-"
	}
	return types.MessageAttributeValue{
		DataType:    aws.String("String"),
		StringValue: aws.String(value),
	}
}

func Subject(s models.Submission) string {
	subject := "Access request"
	if s.Client != "" {
		subject = "Access request for " + s.Client
	}
	// subjects must be ASCII without line breaks
	subject = strings.Map(func(r rune) rune {
		if r < 0x20 || r > 0x7e {
			return ' '
		}
		return r
	}, subject)
	if len(subject) > maxSubjectLength {
		subject = subject[:maxSubjectLength]
	}
	return subject
}

func Message(s models.Submission) string {
	var b strings.Builder
	b.WriteString("An access request was submitted from the dashboard.\n\n")
	fmt.Fprintf(&b, "Client:    %s\n", s.Client)
	fmt.Fprintf(&b, "Account:   %s\n", s.Account)
	fmt.Fprintf(&b, "Requester: %s\n", s.RequesterEmail)
	fmt.Fprintf(&b, "Approver:  %s\n", s.ApproverEmail)
	return b.String()
}
