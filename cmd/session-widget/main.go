package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pennsieve/dashboard-widget-service/internal/handler/widget"
)

func main() {
	lambda.Start(widget.SessionWidgetHandler)
}
