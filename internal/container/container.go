package container

import (
	"context"
	"fmt"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/lambda"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/aws/aws-sdk-go-v2/service/ssm"

	"github.com/pennsieve/dashboard-widget-service/internal/config"
	"github.com/pennsieve/dashboard-widget-service/internal/directory"
	"github.com/pennsieve/dashboard-widget-service/internal/errors"
	"github.com/pennsieve/dashboard-widget-service/internal/logging"
	"github.com/pennsieve/dashboard-widget-service/internal/notify"
	"github.com/pennsieve/dashboard-widget-service/internal/relay"
	"github.com/pennsieve/dashboard-widget-service/internal/session"
	"github.com/pennsieve/dashboard-widget-service/internal/utils"
)

// DependencyContainer defines the interface for dependency injection
type DependencyContainer interface {
	Config() *config.Config
	Directory() *directory.Directory
	Relay() relay.Relay
	Notifier() notify.Notifier
	SessionStarter() session.Starter
}

// Container implements the production dependency container. Clients are created on first
// use so a widget that never relays does not build a Lambda client.
type Container struct {
	cfg       *config.Config
	awsConfig aws.Config

	lambdaClient *lambda.Client
	snsClient    *sns.Client
	ssmClient    *ssm.Client

	relay    relay.Relay
	notifier notify.Notifier
	starter  session.Starter
}

func NewContainer(ctx context.Context, cfg *config.Config) (*Container, error) {
	awsConfig, err := utils.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	return NewContainerWithConfig(cfg, awsConfig), nil
}

func NewContainerWithConfig(cfg *config.Config, awsConfig aws.Config) *Container {
	return &Container{
		cfg:       cfg,
		awsConfig: awsConfig,
	}
}

func (c *Container) Config() *config.Config {
	return c.cfg
}

func (c *Container) Directory() *directory.Directory {
	return directory.Default
}

func (c *Container) LambdaClient() *lambda.Client {
	if c.lambdaClient == nil {
		c.lambdaClient = lambda.NewFromConfig(c.awsConfig)
	}
	return c.lambdaClient
}

func (c *Container) SNSClient() *sns.Client {
	if c.snsClient == nil {
		c.snsClient = sns.NewFromConfig(c.awsConfig)
	}
	return c.snsClient
}

func (c *Container) SSMClient() *ssm.Client {
	if c.ssmClient == nil {
		c.ssmClient = ssm.NewFromConfig(c.awsConfig)
	}
	return c.ssmClient
}

func (c *Container) Relay() relay.Relay {
	if c.relay == nil {
		c.relay = relay.NewLambdaRelay(c.LambdaClient(), c.cfg.RelayFunction, c.cfg.RelayAsync())
	}
	return c.relay
}

func (c *Container) Notifier() notify.Notifier {
	if c.notifier == nil {
		c.notifier = notify.NewSNSNotifier(c.SNSClient(), c.cfg.NotifyTopicArn)
	}
	return c.notifier
}

func (c *Container) SessionStarter() session.Starter {
	if c.starter == nil {
		c.starter = session.NewSSMStarter(c.SSMClient(), c.cfg.SessionDocument)
	}
	return c.starter
}

var (
	production   DependencyContainer
	productionMu sync.Mutex
	loadConfig   = config.Load
)

// Production builds the container from the environment once per cold start. A failed build
// is not cached, so the next invocation tries again.
func Production(ctx context.Context) (DependencyContainer, error) {
	productionMu.Lock()
	defer productionMu.Unlock()

	if production != nil {
		return production, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfig, err)
	}
	logging.SetLevel(cfg.LogLevel)

	c, err := NewContainer(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrConfig, err)
	}
	production = c
	return production, nil
}
