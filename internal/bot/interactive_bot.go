package bot

import (
	"context"
	"fmt"
	"log"
	"strings"

	"gmail-stock-notifier/internal/shop"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Long-poll duration for getUpdates, in seconds.
const updatesLongPollTimeout = 30

// telegramAPI is the subset of *tgbotapi.BotAPI the command loop needs.
type telegramAPI interface {
	MessageSender
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type InteractiveBot struct {
	api      telegramAPI
	stockBot *Bot
}

func NewInteractiveBot(api telegramAPI, stockBot *Bot) *InteractiveBot {
	return &InteractiveBot{
		api:      api,
		stockBot: stockBot,
	}
}

// Start answers commands until ctx is done or the update channel closes.
func (ib *InteractiveBot) Start(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = updatesLongPollTimeout

	updates := ib.api.GetUpdatesChan(u)

	log.Println("🚀 Interactive Telegram bot started! Ready to receive commands...")

	for {
		select {
		case <-ctx.Done():
			ib.api.StopReceivingUpdates()
			log.Println("Interactive Telegram bot stopped.")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message != nil {
				ib.handleMessage(ctx, update.Message)
			}
		}
	}
}

func (ib *InteractiveBot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	if !message.IsCommand() {
		return
	}

	chatID := message.Chat.ID
	username := ""
	if message.From != nil {
		username = message.From.UserName
	}
	log.Printf("📝 Received command from %s (chat %d): %s", username, chatID, message.Text)

	switch message.Command() {
	case "start":
		ib.sendWelcomeMessage(chatID)
	case "help":
		ib.sendHelpMessage(chatID)
	case "check":
		ib.checkStockNow(ctx, chatID)
	}
}

func (ib *InteractiveBot) sendWelcomeMessage(chatID int64) {
	welcomeText := "👋 Stock notifier is running.\n" +
		"You will only be alerted when a product goes from EMPTY to IN STOCK or from IN STOCK to EMPTY."
	ib.sendMessage(chatID, welcomeText, "")
}

func (ib *InteractiveBot) sendHelpMessage(chatID int64) {
	helpText := `*Commands:*
/start - What this bot does
/check - Check current stock now
/help - This help message`
	ib.sendMessage(chatID, helpText, tgbotapi.ModeMarkdown)
}

func (ib *InteractiveBot) checkStockNow(ctx context.Context, chatID int64) {
	ib.sendMessage(chatID, "⏳ Checking the shop API manually...", "")

	products, err := ib.stockBot.trackedProducts(ctx)
	if err != nil {
		log.Printf("❌ Manual stock check failed: %v", err)
		ib.sendMessage(chatID, "❌ Could not reach the shop API. Please check the server logs.", "")
		return
	}

	ib.sendMessage(chatID, formatStockStatus(ib.stockBot.detector.TrackedIDs(), products), tgbotapi.ModeMarkdown)
}

func formatStockStatus(trackedIDs []int, products []shop.Product) string {
	byID := make(map[int]shop.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	lines := []string{"📊 *Current stock:*"}
	for _, id := range trackedIDs {
		product, found := byID[id]
		if !found {
			lines = append(lines, fmt.Sprintf("- ID %d: not listed", id))
			continue
		}
		lines = append(lines, fmt.Sprintf("- %s: *%d pcs*", escapeMarkdown(product.Name), product.Quantity))
	}
	return strings.Join(lines, "\n")
}

func (ib *InteractiveBot) sendMessage(chatID int64, text, parseMode string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode

	if _, err := ib.api.Send(msg); err != nil {
		log.Printf("❌ Error sending message to chat %d: %v", chatID, err)
	}
}
