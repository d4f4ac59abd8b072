package main

import (
	"context"
	"log"

	"gmail-stock-notifier/internal/bot"
	"gmail-stock-notifier/internal/config"
)

func main() {
	appConfig, err := config.ParseConfiguration()
	if err != nil {
		log.Fatalf("Failed to parse configuration with error[%s]", err.Error())
	}

	log.Println("Starting one-shot product stock check...")
	api, err := bot.NewTelegramAPI(appConfig.TelegramBotToken)
	if err != nil {
		log.Fatalf("Failed to initialize telegram api with error[%s]", err.Error())
	}

	stockBot, err := bot.InitBot(appConfig, api)
	if err != nil {
		log.Fatalf("Failed to initialize bot with error[%s]", err.Error())
	}

	ctx, cancel := context.WithTimeout(context.Background(), appConfig.RequestTimeout*2)
	defer cancel()

	available, err := stockBot.ReportAvailable(ctx)
	if err != nil {
		log.Printf("Stock check failed: %v", err)
		return
	}
	log.Printf("Stock check complete, %d monitored product/s in stock.", available)
}
