package session

import (
	"context"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/pennsieve/dashboard-widget-service/internal/errors"
)

type mockSSM struct {
	mock.Mock
}

func (m *mockSSM) StartSession(ctx context.Context, params *ssm.StartSessionInput, optFns ...func(*ssm.Options)) (*ssm.StartSessionOutput, error) {
	args := m.Called(ctx, params)
	out, _ := args.Get(0).(*ssm.StartSessionOutput)
	return out, args.Error(1)
}

func TestSSMStarter_Start(t *testing.T) {
	ctx := context.Background()
	client := new(mockSSM)
	client.On("StartSession", ctx, mock.MatchedBy(func(in *ssm.StartSessionInput) bool {
		return aws.ToString(in.Target) == "i-0abcd1111efgh2222" && in.DocumentName == nil
	})).Return(&ssm.StartSessionOutput{
		SessionId:  aws.String("widget-0123456789abcdef0"),
		StreamUrl:  aws.String("wss://ssmmessages.us-east-1.amazonaws.com/v1/data-channel/widget-0123456789abcdef0"),
		TokenValue: aws.String("token"),
	}, nil)

	s, err := NewSSMStarter(client, "").Start(ctx, "i-0abcd1111efgh2222")
	require.NoError(t, err)

	assert.Equal(t, "i-0abcd1111efgh2222", s.InstanceId)
	assert.Equal(t, "widget-0123456789abcdef0", s.SessionId)
	assert.Contains(t, s.StreamUrl, "wss://")
	client.AssertExpectations(t)
}

func TestSSMStarter_UsesDocument(t *testing.T) {
	ctx := context.Background()
	client := new(mockSSM)
	client.On("StartSession", ctx, mock.MatchedBy(func(in *ssm.StartSessionInput) bool {
		return aws.ToString(in.DocumentName) == "AWS-StartPortForwardingSession"
	})).Return(&ssm.StartSessionOutput{SessionId: aws.String("s-1")}, nil)

	_, err := NewSSMStarter(client, " AWS-StartPortForwardingSession ").Start(ctx, "i-1")
	require.NoError(t, err)
	client.AssertExpectations(t)
}

func TestSSMStarter_Failure(t *testing.T) {
	ctx := context.Background()
	client := new(mockSSM)
	client.On("StartSession", ctx, mock.Anything).Return(nil, assert.AnError)

	_, err := NewSSMStarter(client, "").Start(ctx, "i-1")
	assert.ErrorIs(t, err, errors.ErrSessionFailed)
	assert.ErrorIs(t, err, assert.AnError)
}
