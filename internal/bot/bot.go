package bot

import (
	"context"
	"log"
	"time"

	"gmail-stock-notifier/internal/config"
	"gmail-stock-notifier/internal/shop"
	"gmail-stock-notifier/internal/stock"

	"github.com/google/uuid"
)

// ProductFetcher is satisfied by *shop.Client.
type ProductFetcher interface {
	FetchProducts(ctx context.Context) ([]shop.Product, error)
}

type Bot struct {
	fetcher  ProductFetcher
	detector *stock.Detector
	notifier *Notifier

	appConfig *config.AppConfig
}

func InitBot(appConfig *config.AppConfig, sender MessageSender) (*Bot, error) {
	client, err := shop.NewClient(appConfig.APIURL, appConfig.APIKey, appConfig.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return newBot(appConfig, client, sender), nil
}

func newBot(appConfig *config.AppConfig, fetcher ProductFetcher, sender MessageSender) *Bot {
	return &Bot{
		fetcher:   fetcher,
		detector:  stock.NewDetector(appConfig.TrackedProductIDs),
		notifier:  NewNotifier(sender, appConfig.TelegramChatId, appConfig.ShopURL),
		appConfig: appConfig,
	}
}

// trackedProducts fetches the product list and keeps only tracked entries.
func (bot *Bot) trackedProducts(ctx context.Context) ([]shop.Product, error) {
	products, err := bot.fetcher.FetchProducts(ctx)
	if err != nil {
		return nil, err
	}

	var tracked []shop.Product
	for _, product := range products {
		if bot.detector.IsTracked(product.ID) {
			tracked = append(tracked, product)
		}
	}
	return tracked, nil
}

// CheckTargetStock runs one fetch, detect and notify cycle and returns the
// alerts it raised. A failed fetch skips the cycle.
func (bot *Bot) CheckTargetStock(ctx context.Context) []stock.Alert {
	cycleID := uuid.NewString()[:8]
	log.Printf("[%s] Checking stock for %d monitored products...", cycleID, len(bot.appConfig.TrackedProductIDs))

	products, err := bot.trackedProducts(ctx)
	if err != nil {
		log.Printf("[%s] Error fetching products, skipping this cycle: %v", cycleID, err)
		return nil
	}
	if len(products) == 0 {
		log.Printf("[%s] No monitored products in API response, skipping this cycle.", cycleID)
		return nil
	}

	for _, product := range products {
		log.Printf("[%s] Check ID %d (%s): quantity=%d", cycleID, product.ID, product.Name, product.Quantity)
	}

	alerts := bot.detector.Detect(products)
	for _, alert := range alerts {
		log.Printf("[%s] STOCK UPDATE: %s (ID: %d) %s, %d -> %d", cycleID,
			alert.Product.Name, alert.Product.ID, alert.Transition, alert.Previous, alert.Product.Quantity)
	}

	bot.notifier.NotifyTransitions(alerts)
	return alerts
}

// Run checks stock after FirstCheckDelay and then every CheckInterval until
// ctx is done.
func (bot *Bot) Run(ctx context.Context) {
	timer := time.NewTimer(bot.appConfig.FirstCheckDelay)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("Stock checks stopped: %v", context.Cause(ctx))
			return
		case <-timer.C:
			bot.CheckTargetStock(ctx)
			timer.Reset(bot.appConfig.CheckInterval)
		}
	}
}

// ReportAvailable fetches once and sends a digest of every tracked product
// currently in stock. It returns how many were in stock.
func (bot *Bot) ReportAvailable(ctx context.Context) (int, error) {
	products, err := bot.trackedProducts(ctx)
	if err != nil {
		return 0, err
	}

	available := 0
	for _, product := range products {
		log.Printf("Check ID %d: quantity=%d", product.ID, product.Quantity)
		if product.Quantity > 0 {
			available++
		}
	}

	bot.notifier.NotifyAvailable(products)
	return available, nil
}
