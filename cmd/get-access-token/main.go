package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/andretaki/amazon-ads-project2024/internal/bootstrap"
	"github.com/andretaki/amazon-ads-project2024/internal/event"
)

func main() {
	rt, err := bootstrap.Load("get-access-token")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	defer rt.Logger.Sync()

	exchanger, err := rt.NewExchanger()
	if err != nil {
		rt.Logger.ErrorFields("Failed to create token exchanger", err)
		log.Fatal(err)
	}

	lambda.Start(func(ctx context.Context, evt event.Event) (event.Response, error) {
		return exchanger.Handle(ctx, evt), nil
	})
}
