package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"github.com/wolfman30/reluguard-site/internal/app/bootstrap"
	appconfig "github.com/wolfman30/reluguard-site/internal/config"
	"github.com/wolfman30/reluguard-site/pkg/logging"
)

func main() {
	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	site, err := bootstrap.BuildSite(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("failed to build site", "error", err)
		os.Exit(1)
	}

	lambda.Start(func(ctx context.Context, evt events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
		return handle(ctx, site.Handler, evt)
	})
}
