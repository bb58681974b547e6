package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pennsieve/dashboard-widget-service/internal/handler/receiver"
)

func main() {
	// Publishes relayed submissions to NOTIFY_TOPIC_ARN
	lambda.Start(receiver.NotifyHandler)
}
