package main

import (
	"context"
	"log"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/andretaki/amazon-ads-project2024/internal/bootstrap"
	"github.com/andretaki/amazon-ads-project2024/internal/event"
)

func main() {
	rt, err := bootstrap.Load("send-report-request")
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	defer rt.Logger.Sync()

	requester, err := rt.NewRequester()
	if err != nil {
		rt.Logger.ErrorFields("Failed to create report requester", err)
		log.Fatal(err)
	}

	rt.Logger.Info("send-report-request starting: %s", rt.Config.ReportMode())
	lambda.Start(func(ctx context.Context, evt event.Event) (interface{}, error) {
		return requester.Handle(ctx, evt), nil
	})
}
