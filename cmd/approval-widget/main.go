package main

import (
	"github.com/aws/aws-lambda-go/lambda"
	"github.com/pennsieve/dashboard-widget-service/internal/handler/widget"
)

func main() {
	// CloudWatch invokes custom widgets directly with raw JSON events
	lambda.Start(widget.ApprovalWidgetHandler)
}
