package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/pennsieve/dashboard-widget-service/internal/errors"
)

// StartSessionAPI is the slice of the SSM client needed to open Session Manager sessions.
type StartSessionAPI interface {
	StartSession(ctx context.Context, params *ssm.StartSessionInput, optFns ...func(*ssm.Options)) (*ssm.StartSessionOutput, error)
}

type Starter interface {
	Start(ctx context.Context, instanceId string) (Session, error)
}

// Session is a started Session Manager session. The widget only starts it; connecting is
// left to the Session Manager plugin or console.
type Session struct {
	InstanceId string
	SessionId  string
	StreamUrl  string
}

type SSMStarter struct {
	client       StartSessionAPI
	documentName string
}

// NewSSMStarter returns a starter. An empty documentName uses the SSM default shell document.
func NewSSMStarter(client StartSessionAPI, documentName string) *SSMStarter {
	return &SSMStarter{
		client:       client,
		documentName: strings.TrimSpace(documentName),
	}
}

func (s *SSMStarter) Start(ctx context.Context, instanceId string) (Session, error) {
	input := &ssm.StartSessionInput{
		Target: aws.String(instanceId),
		Reason: aws.String("dashboard widget"),
	}
	if s.documentName != "" {
		input.DocumentName = aws.String(s.documentName)
	}

	out, err := s.client.StartSession(ctx, input)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %w", errors.ErrSessionFailed, err)
	}

	return Session{
		InstanceId: instanceId,
		SessionId:  aws.ToString(out.SessionId),
		StreamUrl:  aws.ToString(out.StreamUrl),
	}, nil
}
