package health

import (
	"fmt"
	"time"

	"github.com/stratastor/logger"

	"github.com/ovsyannikovas/minio-ranger-gateway/config"
	"github.com/ovsyannikovas/minio-ranger-gateway/internal/constants"
	"github.com/ovsyannikovas/minio-ranger-gateway/pkg/httpclient"
)

type HealthChecker struct {
	Client *httpclient.Client
	Logger logger.Logger
}

func NewHealthChecker(cfg *config.Config) *HealthChecker {
	logConfig := config.NewLoggerConfig(cfg)
	l, err := logger.NewTag(logConfig, "health")
	if err != nil {
		panic(fmt.Sprintf("Failed to create logger: %v", err))
	}
	baseURL := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)
	clientConfig := httpclient.NewClientConfig()
	clientConfig.Timeout = 5 * time.Second
	clientConfig.RetryCount = 3
	clientConfig.RetryWaitTime = 2 * time.Second
	clientConfig.BaseURL = baseURL
	client := httpclient.NewClient(clientConfig)

	return &HealthChecker{
		Client: client,
		Logger: l,
	}
}

// CheckHealth probes the running gateway's health endpoint.
func (hc *HealthChecker) CheckHealth() (string, error) {
	resp, err := hc.Client.R().Get(constants.APIHealth)
	if err != nil {
		return "", err
	}

	if resp.IsSuccess() {
		return resp.String(), nil
	}
	return "", fmt.Errorf("unhealthy. Status: %s, Response: %s", resp.Status(), resp.String())
}
