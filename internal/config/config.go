package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"gmail-stock-notifier/internal/shop"

	"github.com/joho/godotenv"
)

// Product IDs watched on the shop.
var trackedProductIDs = []int{4, 148}

type AppConfig struct {
	CheckInterval     time.Duration
	FirstCheckDelay   time.Duration
	MaxRunTime        time.Duration
	RequestTimeout    time.Duration
	APIURL            string
	APIKey            string
	ShopURL           string
	TelegramBotToken  string
	TelegramChatId    int64
	TrackedProductIDs []int
}

func parseChatID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	chatID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("TELEGRAM_CHAT_ID %q is not a numeric chat id: %w", raw, err)
	}
	return chatID, nil
}

func loadEnvVariables() (string, string, string) {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file loaded (%v), using process environment", err)
	} else {
		log.Println(".env file loaded successfully.")
	}

	telegramBotToken := strings.TrimSpace(os.Getenv("TELEGRAM_BOT_TOKEN"))
	if telegramBotToken == "" {
		telegramBotToken = strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN"))
	}
	telegramChatID := strings.TrimSpace(os.Getenv("TELEGRAM_CHAT_ID"))
	apiKey := strings.TrimSpace(os.Getenv("SHOP_API_KEY"))

	return telegramBotToken, telegramChatID, apiKey
}

func ParseConfiguration() (*AppConfig, error) {
	return parseConfiguration(os.Args[1:])
}

func parseConfiguration(args []string) (*AppConfig, error) {
	flags := flag.NewFlagSet("gmail-stock-notifier", flag.ContinueOnError)
	checkInterval := flags.Duration("check-interval", 60*time.Second, "interval at which the app will check for stock")
	firstCheckDelay := flags.Duration("first-check-delay", 10*time.Second, "delay before the first stock check")
	maxRunTime := flags.Duration("max-run-time", 2*time.Hour+50*time.Minute, "wall-clock limit after which the process exits")
	requestTimeout := flags.Duration("request-timeout", 15*time.Second, "timeout for shop api requests")
	apiURL := flags.String("api-url", shop.DefaultAPIURL, "shop product list endpoint")
	shopURL := flags.String("shop-url", shop.DefaultShopURL, "shop page linked from alerts")
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	if *checkInterval <= 0 {
		return nil, fmt.Errorf("check-interval must be positive, got %v", *checkInterval)
	}
	if *maxRunTime <= 0 {
		return nil, fmt.Errorf("max-run-time must be positive, got %v", *maxRunTime)
	}
	if *requestTimeout <= 0 {
		return nil, fmt.Errorf("request-timeout must be positive, got %v", *requestTimeout)
	}
	if *firstCheckDelay < 0 {
		return nil, fmt.Errorf("first-check-delay must not be negative, got %v", *firstCheckDelay)
	}

	telegramBotToken, rawChatID, apiKey := loadEnvVariables()
	if telegramBotToken == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN is empty. Please set it in your environment or .env file")
	}

	telegramChatID, err := parseChatID(rawChatID)
	if err != nil {
		return nil, err
	}

	log.Printf("Telegram Bot Token Length: %d", len(telegramBotToken))
	if telegramChatID != 0 {
		log.Printf("Telegram alert chat ID: %d", telegramChatID)
	} else {
		log.Println("No Telegram Chat ID set - stock alerts will not be delivered")
	}
	if apiKey == "" {
		log.Println("Warning: SHOP_API_KEY is empty - the shop API will likely answer success=false")
	}
	log.Printf("Monitoring %d product ID/s: %v", len(trackedProductIDs), trackedProductIDs)

	return &AppConfig{
		CheckInterval:     *checkInterval,
		FirstCheckDelay:   *firstCheckDelay,
		MaxRunTime:        *maxRunTime,
		RequestTimeout:    *requestTimeout,
		APIURL:            *apiURL,
		APIKey:            apiKey,
		ShopURL:           *shopURL,
		TelegramBotToken:  telegramBotToken,
		TelegramChatId:    telegramChatID,
		TrackedProductIDs: append([]int(nil), trackedProductIDs...),
	}, nil
}
