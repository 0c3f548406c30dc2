package prompt

import "github.com/hyperjump/oshiete/internal/models"

// HistoryLimit is the number of most recent conversation turns forwarded to
// generation. Older turns are dropped to bound prompt size.
const HistoryLimit = 5

// TrimHistory returns the last HistoryLimit turns of history in original
// order, with system-role turns removed. Caller-supplied history must not be
// able to inject a conflicting system directive.
func TrimHistory(history []models.ChatMessage) []models.ChatMessage {
	if len(history) > HistoryLimit {
		history = history[len(history)-HistoryLimit:]
	}
	trimmed := make([]models.ChatMessage, 0, len(history))
	for _, msg := range history {
		if msg.Role == models.RoleSystem {
			continue
		}
		trimmed = append(trimmed, msg)
	}
	return trimmed
}
