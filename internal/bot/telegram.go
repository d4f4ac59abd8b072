package bot

import (
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"gmail-stock-notifier/internal/shop"
	"gmail-stock-notifier/internal/stock"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const (
	backInStockHeader = "🔥 *BACK IN STOCK!* 🔥"
	outOfStockHeader  = "⚠️ *OUT OF STOCK* ⚠️"
	shopButtonText    = "🛒 Visit the shop"

	// Must stay above updatesLongPollTimeout or every getUpdates call times out.
	telegramRequestTimeout = 45 * time.Second
)

var errNotificationSkipped = errors.New("telegram chat id is not configured")

// MessageSender is the part of *tgbotapi.BotAPI used to deliver messages.
type MessageSender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

func NewTelegramAPI(token string) (*tgbotapi.BotAPI, error) {
	return newTelegramAPI(token, tgbotapi.APIEndpoint, telegramRequestTimeout)
}

func newTelegramAPI(token, endpoint string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}

	api.Debug = false
	log.Printf("🤖 Authorized on account %s", api.Self.UserName)
	return api, nil
}

// Notifier formats stock alerts and delivers them to a single chat.
type Notifier struct {
	sender  MessageSender
	chatID  int64
	shopURL string
}

func NewNotifier(sender MessageSender, chatID int64, shopURL string) *Notifier {
	return &Notifier{
		sender:  sender,
		chatID:  chatID,
		shopURL: shopURL,
	}
}

func escapeMarkdown(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, text)
}

func formatInStockItem(product shop.Product) string {
	return fmt.Sprintf("✅ %s\n- ID: `%d`\n- Price: %s VND\n- Quantity: *%d*",
		escapeMarkdown(product.Name), product.ID, product.Price.String(), product.Quantity)
}

func formatOutOfStockItem(product shop.Product) string {
	return fmt.Sprintf("❌ %s\n- ID: `%d`\n- Status: *Sold out*",
		escapeMarkdown(product.Name), product.ID)
}

func formatDigest(header string, items []string) string {
	return header + "\n\n" + strings.Join(items, "\n\n")
}

func (n *Notifier) shopKeyboard() *tgbotapi.InlineKeyboardMarkup {
	if n.shopURL == "" {
		return nil
	}
	keyboard := tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(shopButtonText, n.shopURL),
		),
	)
	return &keyboard
}

// NotifyTransitions sends one grouped message for back-in-stock alerts and
// one for out-of-stock alerts. Empty groups send nothing.
func (n *Notifier) NotifyTransitions(alerts []stock.Alert) {
	var inStockItems, outOfStockItems []string
	for _, alert := range alerts {
		switch alert.Transition {
		case stock.BackInStock:
			inStockItems = append(inStockItems, formatInStockItem(alert.Product))
		case stock.OutOfStock:
			outOfStockItems = append(outOfStockItems, formatOutOfStockItem(alert.Product))
		}
	}

	if len(inStockItems) > 0 {
		n.deliver(formatDigest(backInStockHeader, inStockItems), n.shopKeyboard(), "back-in-stock")
	}
	if len(outOfStockItems) > 0 {
		n.deliver(formatDigest(outOfStockHeader, outOfStockItems), nil, "out-of-stock")
	}
}

// NotifyAvailable sends a single digest listing every product with stock.
func (n *Notifier) NotifyAvailable(products []shop.Product) {
	var items []string
	for _, product := range products {
		if product.Quantity > 0 {
			items = append(items, formatInStockItem(product))
		}
	}
	if len(items) == 0 {
		return
	}
	n.deliver(formatDigest(backInStockHeader, items), n.shopKeyboard(), "available")
}

// deliver logs and drops send failures; alerts are never retried.
func (n *Notifier) deliver(text string, keyboard *tgbotapi.InlineKeyboardMarkup, notificationType string) {
	err := n.sendTelegramNotification(text, keyboard)
	if errors.Is(err, errNotificationSkipped) {
		return
	}
	if err != nil {
		log.Printf("❌ Error sending Telegram notification (%s): %v", notificationType, err)
		return
	}
	log.Printf("📨 Telegram notification (%s) sent successfully.", notificationType)
}

func (n *Notifier) sendTelegramNotification(text string, keyboard *tgbotapi.InlineKeyboardMarkup) error {
	if n.sender == nil || n.chatID == 0 {
		log.Println("Warning: Telegram chat ID is not configured, skipping notification.")
		return errNotificationSkipped
	}

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	msg.DisableWebPagePreview = true
	if keyboard != nil {
		msg.ReplyMarkup = keyboard
	}

	if _, err := n.sender.Send(msg); err != nil {
		return fmt.Errorf("error sending message to chat %d: %w", n.chatID, err)
	}
	return nil
}
