// Command lambda sirve la misma API detrás de API Gateway.
package main

import (
	"context"
	"os"

	"contact-notes/internal/app"
	"contact-notes/internal/platform/config"
	"contact-notes/internal/platform/logger"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/awslabs/aws-lambda-go-api-proxy/httpadapter"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		logger.New(logger.Options{Format: logger.FormatJSON}).Error("config error", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	// CloudWatch Logs: siempre JSON
	log := logger.New(logger.Options{
		Level:  logger.ParseLevel(cfg.LogLevel),
		Format: logger.FormatJSON,
		App:    cfg.AppName,
	})

	a, err := app.New(context.Background(), cfg, log)
	if err != nil {
		log.Error("startup failed", map[string]any{"error": err.Error()})
		os.Exit(1)
	}

	adapter := httpadapter.New(a.Handler())

	lambda.Start(func(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
		return adapter.ProxyWithContext(ctx, req)
	})
}
