package config

import (
	"bytes"
	"log"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPassedConfig(t *testing.T) {
	t.Run("Check for parsed chat ID", func(t *testing.T) {
		chatID, err := parseChatID(" -100123456 ")
		require.NoError(t, err)
		assert.Equal(t, int64(-100123456), chatID)

		chatID, err = parseChatID("")
		require.NoError(t, err)
		assert.Zero(t, chatID)

		_, err = parseChatID("@channel")
		assert.Error(t, err)
	})

	t.Run("Defaults", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
		t.Setenv("TELEGRAM_CHAT_ID", "42")
		t.Setenv("SHOP_API_KEY", "key")

		appConfig, err := parseConfiguration(nil)
		require.NoError(t, err)
		assert.Equal(t, 60*time.Second, appConfig.CheckInterval)
		assert.Equal(t, 10*time.Second, appConfig.FirstCheckDelay)
		assert.Equal(t, 2*time.Hour+50*time.Minute, appConfig.MaxRunTime)
		assert.Equal(t, "123:abc", appConfig.TelegramBotToken)
		assert.Equal(t, int64(42), appConfig.TelegramChatId)
		assert.Equal(t, "key", appConfig.APIKey)
		assert.Equal(t, []int{4, 148}, appConfig.TrackedProductIDs)
	})

	t.Run("Flags override defaults", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
		t.Setenv("TELEGRAM_CHAT_ID", "")

		appConfig, err := parseConfiguration([]string{"-check-interval", "5s", "-max-run-time", "1h"})
		require.NoError(t, err)
		assert.Equal(t, 5*time.Second, appConfig.CheckInterval)
		assert.Equal(t, time.Hour, appConfig.MaxRunTime)
		assert.Zero(t, appConfig.TelegramChatId)
	})

	t.Run("Legacy token variable", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "")
		t.Setenv("TELEGRAM_TOKEN", "legacy")

		appConfig, err := parseConfiguration(nil)
		require.NoError(t, err)
		assert.Equal(t, "legacy", appConfig.TelegramBotToken)
	})

	t.Run("Missing token", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "")
		t.Setenv("TELEGRAM_TOKEN", "")

		_, err := parseConfiguration(nil)
		assert.Error(t, err)
	})

	t.Run("Rejects non-positive request timeout", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

		_, err := parseConfiguration([]string{"-request-timeout", "0s"})
		assert.Error(t, err)

		_, err = parseConfiguration([]string{"-request-timeout", "-5s"})
		assert.Error(t, err)
	})

	t.Run("Warns about missing api key", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")
		t.Setenv("SHOP_API_KEY", "")

		var logs bytes.Buffer
		log.SetOutput(&logs)
		defer log.SetOutput(os.Stderr)

		_, err := parseConfiguration(nil)
		require.NoError(t, err)
		assert.Contains(t, logs.String(), "SHOP_API_KEY is empty")
	})

	t.Run("Rejects non-positive interval", func(t *testing.T) {
		t.Setenv("TELEGRAM_BOT_TOKEN", "123:abc")

		_, err := parseConfiguration([]string{"-check-interval", "0s"})
		assert.Error(t, err)
	})
}
