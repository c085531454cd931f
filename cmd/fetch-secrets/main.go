package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/andretaki/amazon-ads-project2024/internal/bootstrap"
	"github.com/andretaki/amazon-ads-project2024/internal/event"
)

func main() {
	rt, err := bootstrap.Load("fetch-secrets")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	defer rt.Logger.Sync()

	resolver, err := rt.NewResolver(context.Background())
	if err != nil {
		rt.Logger.ErrorFields("Failed to create secret resolver", err)
		log.Fatal(err)
	}

	rt.Logger.Info("fetch-secrets starting in region %s", rt.Config.AWS.Region)
	lambda.Start(func(ctx context.Context) (event.Response, error) {
		return resolver.Handle(ctx), nil
	})
}
