package telegram

import "errors"

var (
	// ErrMissingToken is returned when the Telegram bot token is not configured
	ErrMissingToken = errors.New("telegram bot token is required")
	// ErrMissingChatID is returned when no chat is configured to receive alerts
	ErrMissingChatID = errors.New("telegram chat ID is required")
	// ErrNotificationFailed is returned when the Telegram API rejects or fails a message
	ErrNotificationFailed = errors.New("telegram notification failed")
)
