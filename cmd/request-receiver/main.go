package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pennsieve/dashboard-widget-service/internal/handler/receiver"
)

func main() {
	lambda.Start(receiver.AcknowledgeHandler)
}
