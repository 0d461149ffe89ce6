package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	internalaws "github.com/larkerlabs/storefront-orderflow/internal/aws"
)

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	clients, err := internalaws.NewClients(context.Background())
	if err != nil {
		slog.Error("failed to init aws clients", "err", err)
		os.Exit(1)
	}

	processor := NewProcessor(clients, os.Getenv("ORDERS_TABLE"))

	// If RUN_LOCAL=true, simulate a single SQS event for local testing.
	if os.Getenv("RUN_LOCAL") == "true" {
		testBody := os.Getenv("LOCAL_SQS_BODY")
		if testBody == "" {
			testBody = `{"order_id":"local-order-1","user_id":"local-user-1"}`
		}
		event := events.SQSEvent{
			Records: []events.SQSMessage{
				{Body: testBody},
			},
		}
		if err := processor.Handle(context.Background(), event); err != nil {
			slog.Error("local handler error", "err", err)
			os.Exit(1)
		}
		return
	}

	lambda.Start(processor.Handle)
}
