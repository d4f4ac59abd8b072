package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gmail-stock-notifier/internal/bot"
	"gmail-stock-notifier/internal/config"
)

const shutdownGracePeriod = 30 * time.Second

var errRunTimeReached = errors.New("maximum run time reached")

func main() {
	appConfig, err := config.ParseConfiguration()
	if err != nil {
		log.Fatalf("Failed to parse configuration with error[%s]", err.Error())
	}

	log.Println("🚀 Starting Gmail Stock Notifier Bot...")

	api, err := bot.NewTelegramAPI(appConfig.TelegramBotToken)
	if err != nil {
		log.Fatalf("Failed to initialize telegram api with error[%s]", err.Error())
	}

	stockBot, err := bot.InitBot(appConfig, api)
	if err != nil {
		log.Fatalf("Failed to initialize stock bot with error[%s]", err.Error())
	}

	interactiveBot := bot.NewInteractiveBot(api, stockBot)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeoutCause(ctx, appConfig.MaxRunTime, errRunTimeReached)
	defer cancel()

	// A hung Telegram or shop call must not outlive the cutoff.
	go func() {
		<-ctx.Done()
		time.Sleep(shutdownGracePeriod)
		log.Printf("Shutdown did not finish within %v, forcing exit.", shutdownGracePeriod)
		os.Exit(1)
	}()

	interactiveDone := make(chan struct{})
	go func() {
		interactiveBot.Start(ctx)
		close(interactiveDone)
	}()

	log.Printf("🎯 Regular checks starting after %v with check-interval[%v], exiting after %v",
		appConfig.FirstCheckDelay, appConfig.CheckInterval, appConfig.MaxRunTime)

	stockBot.Run(ctx)
	<-interactiveDone

	if errors.Is(context.Cause(ctx), errRunTimeReached) {
		log.Println("⏱️ Run time limit reached, shutting down.")
	} else {
		log.Println("Shutdown requested, stopping.")
	}
	log.Println("Process finished cleanly.")
}
