// Package notify sends collection reports to a Telegram chat.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/client"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/collector"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/errors"
	"github.com/fr4nk3nst1ner/salarybarometer/internal/logging"
)

const defaultAPIURL = "https://api.telegram.org"

// telegramMessage represents a message to send via Telegram
type telegramMessage struct {
	ChatID    string `json:"chat_id"`
	Text      string `json:"text"`
	ParseMode string `json:"parse_mode,omitempty"`
}

// Telegram posts messages through the Bot API
type Telegram struct {
	token      string
	chatID     string
	apiURL     string
	httpClient *http.Client
	log        *logging.Logger
}

// NewTelegram creates a notifier. Without a token or chat id it stays silent.
func NewTelegram(token, chatID string, log *logging.Logger) *Telegram {
	return &Telegram{
		token:      token,
		chatID:     chatID,
		apiURL:     defaultAPIURL,
		httpClient: client.CreateHTTPClient("", 15*time.Second),
		log:        log,
	}
}

// Enabled reports whether credentials are configured
func (t *Telegram) Enabled() bool {
	return t != nil && t.token != "" && t.chatID != ""
}

// CollectionReport sends the outcome of a collection run
func (t *Telegram) CollectionReport(ctx context.Context, res *collector.RunResult, runErr error) error {
	if !t.Enabled() {
		t.log.Debug("telegram credentials not configured, skipping notification")
		return nil
	}
	return t.Send(ctx, FormatReport(res, runErr))
}

// Send posts a MarkdownV2 message, retrying once as plain text if Telegram rejects the markup
func (t *Telegram) Send(ctx context.Context, text string) error {
	err := t.post(ctx, telegramMessage{ChatID: t.chatID, Text: text, ParseMode: "MarkdownV2"})
	if err == nil {
		return nil
	}
	t.log.Warn("telegram rejected markdown message, retrying as plain text: %v", err)
	return t.post(ctx, telegramMessage{ChatID: t.chatID, Text: stripMarkdown(text)})
}

func (t *Telegram) post(ctx context.Context, msg telegramMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return errors.Wrap(err, "marshal telegram message")
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", t.apiURL, t.token)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return errors.Wrap(err, "build telegram request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return errors.ExternalServiceError("telegram", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := client.ReadResponseBody(resp)
		return errors.ExternalServiceError("telegram",
			fmt.Errorf("status %d: %s", resp.StatusCode, client.Excerpt(body, 200)))
	}
	return nil
}

// FormatReport builds the MarkdownV2 text of a run report
func FormatReport(res *collector.RunResult, runErr error) string {
	var sb strings.Builder
	sb.WriteString("📊 *Зарплатный барометр*\n\n")

	if res == nil {
		sb.WriteString("Сбор вакансий не выполнен")
		if runErr != nil {
			sb.WriteString(": " + escapeMarkdown(runErr.Error()))
		}
		return sb.String()
	}

	if runErr != nil {
		sb.WriteString(fmt.Sprintf("⚠️ Сбор завершился с ошибкой: %s\n\n", escapeMarkdown(runErr.Error())))
	} else {
		sb.WriteString(fmt.Sprintf("Собрано *%s* вакансий\n", escapeMarkdown(humanize.Comma(int64(res.Total)))))
		if res.Duplicates > 0 {
			sb.WriteString(fmt.Sprintf("Дубликатов отброшено: %d\n", res.Duplicates))
		}
		sb.WriteString("\n")
	}

	failed := 0
	for _, g := range res.Groups {
		if g.Error != "" {
			failed++
			sb.WriteString(fmt.Sprintf("❌ %s: %s\n", escapeMarkdown(g.Role), escapeMarkdown(g.Error)))
		}
	}
	if failed == 0 && len(res.Groups) > 0 {
		sb.WriteString(fmt.Sprintf("✅ Все группы ролей \\(%d\\) обработаны\n", len(res.Groups)))
	}

	sb.WriteString("━━━━━━━━━━━━━━━━━━━━\n")
	sb.WriteString(fmt.Sprintf("📅 %s", escapeMarkdown(res.FinishedAt.Format("02.01.2006 15:04"))))
	return sb.String()
}

func escapeMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"_", "\\_",
		"*", "\\*",
		"[", "\\[",
		"]", "\\]",
		"(", "\\(",
		")", "\\)",
		"~", "\\~",
		"`", "\\`",
		">", "\\>",
		"#", "\\#",
		"+", "\\+",
		"-", "\\-",
		"=", "\\=",
		"|", "\\|",
		"{", "\\{",
		"}", "\\}",
		".", "\\.",
		"!", "\\!",
	)
	return replacer.Replace(text)
}

func stripMarkdown(text string) string {
	replacer := strings.NewReplacer(
		"\\", "",
		"*", "",
		"_", "",
		"`", "",
	)
	return replacer.Replace(text)
}
