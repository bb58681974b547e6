package container

import (
	"github.com/pennsieve/dashboard-widget-service/internal/config"
	"github.com/pennsieve/dashboard-widget-service/internal/directory"
	"github.com/pennsieve/dashboard-widget-service/internal/notify"
	"github.com/pennsieve/dashboard-widget-service/internal/relay"
	"github.com/pennsieve/dashboard-widget-service/internal/session"
)

// MockContainer implements the container interface with mocked dependencies for unit tests
type MockContainer struct {
	MockConfig         *config.Config
	MockDirectory      *directory.Directory
	MockRelay          relay.Relay
	MockNotifier       notify.Notifier
	MockSessionStarter session.Starter
}

func NewMockContainer() *MockContainer {
	return &MockContainer{
		MockConfig:    &config.Config{RelayMode: config.RelayModeSync},
		MockDirectory: directory.Default,
	}
}

func (c *MockContainer) Config() *config.Config {
	return c.MockConfig
}

func (c *MockContainer) Directory() *directory.Directory {
	return c.MockDirectory
}

func (c *MockContainer) Relay() relay.Relay {
	return c.MockRelay
}

func (c *MockContainer) Notifier() notify.Notifier {
	return c.MockNotifier
}

func (c *MockContainer) SessionStarter() session.Starter {
	return c.MockSessionStarter
}
