package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/powerpay/reportdesk/internal/powerpay"
	"github.com/powerpay/reportdesk/internal/report"
)

// One-shot smoke run against a live PowerPay endpoint. The real entry
// point is cmd/server.
func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	baseURL := os.Getenv("REPORTDESK_POWERPAY_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8383"
	}
	client, err := powerpay.New(baseURL, os.Getenv("REPORTDESK_POWERPAY_BEARER_TOKEN"))
	if err != nil {
		logger.Fatal("failed to initialize PowerPay client", zap.Error(err))
	}

	prompt := "Show total payroll cost by department for Q1"
	resp, err := client.StartConversation(context.Background(), prompt)
	if err != nil {
		logger.Fatal("failed to start conversation", zap.Error(err))
	}

	fmt.Printf("conversation %s started with %d message(s)\n", resp.ReportID, len(resp.Messages))
	fmt.Println(report.MockReportContent(prompt, "Payroll"))
}
