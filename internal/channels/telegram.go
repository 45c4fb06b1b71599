package channels

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/nexus-ai/nexus/internal/logging"
	"github.com/nexus-ai/nexus/internal/runtime"
)

var _ runtime.Listener = (*TelegramListener)(nil)

type telegramSendMessageFunc func(context.Context, *bot.SendMessageParams) (*models.Message, error)
type telegramSendChatActionFunc func(context.Context, *bot.SendChatActionParams) (bool, error)

// TelegramListener receives Telegram updates and dispatches authorized messages.
// Users are authorized by numeric ID or username listed in the channel config.
type TelegramListener struct {
	token        string
	allowedUsers map[string]struct{}

	sendMessage    telegramSendMessageFunc
	sendChatAction telegramSendChatActionFunc
}

// NewTelegram creates a Telegram listener over one bot token and user allowlist.
func NewTelegram(token string, allowedUsers []string) *TelegramListener {
	allowed := make(map[string]struct{}, len(allowedUsers))
	for _, user := range allowedUsers {
		user = strings.TrimSpace(strings.TrimPrefix(user, "@"))
		if user == "" {
			continue
		}
		allowed[strings.ToLower(user)] = struct{}{}
	}
	return &TelegramListener{token: token, allowedUsers: allowed}
}

// Listen starts long-polling Telegram and dispatches authorized messages.
func (t *TelegramListener) Listen(ctx context.Context, handler runtime.Handler) error {
	if handler == nil {
		return errors.New("handler is required")
	}
	if strings.TrimSpace(t.token) == "" {
		return errors.New("telegram token is required")
	}
	if len(t.allowedUsers) == 0 {
		logging.Logger().Warn("No authorized Telegram users. Add allowed_users to the telegram channel config.")
	}

	dispatchCtx, cancelDispatch := context.WithCancel(ctx)
	dispatcher := runtime.NewDispatcher(&telegramTypingHandler{listener: t, handler: handler}, defaultDispatchQueue)
	defaultHandler := func(updateCtx context.Context, _ *bot.Bot, update *models.Update) {
		if update == nil || update.Message == nil || update.Message.From == nil {
			return
		}
		t.handleInboundMessage(updateCtx, dispatcher, update.Message)
	}

	b, err := bot.New(strings.TrimSpace(t.token), bot.WithDefaultHandler(defaultHandler))
	if err != nil {
		cancelDispatch()
		return fmt.Errorf("create telegram bot: %w", err)
	}

	me, err := b.GetMe(ctx)
	if err != nil {
		cancelDispatch()
		return fmt.Errorf("fetch telegram bot profile: %w", err)
	}
	logging.Logger().Info(fmt.Sprintf("Connected to Telegram Bot @%s", strings.TrimSpace(me.Username)))

	t.sendMessage = b.SendMessage
	t.sendChatAction = b.SendChatAction

	if err := dispatcher.Start(dispatchCtx); err != nil {
		cancelDispatch()
		return err
	}
	defer func() {
		cancelDispatch()
		dispatcher.Wait()
	}()

	go b.Start(ctx)
	<-ctx.Done()
	return nil
}

func (t *TelegramListener) handleInboundMessage(
	ctx context.Context,
	dispatcher *runtime.Dispatcher,
	msg *models.Message,
) {
	if msg == nil || msg.From == nil {
		return
	}

	userID := strconv.FormatInt(msg.From.ID, 10)
	username := strings.TrimSpace(msg.From.Username)
	logging.Logger().Info(
		"telegram inbound message",
		"user_id", userID,
		"username", username,
		"text", messagePreview(msg.Text, 100),
	)

	if !t.isAllowedUser(userID, username) {
		return
	}

	writer := &telegramWriter{listener: t, chatID: msg.Chat.ID}
	trimmed := strings.TrimSpace(msg.Text)
	if err := dispatcher.Enqueue(ctx, &runtime.Message{Text: trimmed, Sender: username}, writer); err != nil {
		logging.Logger().Warn("telegram enqueue failed", "user_id", userID, "username", username, "err", err)
	}
}

func (t *TelegramListener) isAllowedUser(userID, username string) bool {
	if _, ok := t.allowedUsers[userID]; ok {
		return true
	}
	if username == "" {
		return false
	}
	_, ok := t.allowedUsers[strings.ToLower(username)]
	return ok
}

type telegramWriter struct {
	listener *TelegramListener
	chatID   int64
}

func (w *telegramWriter) WriteMessage(ctx context.Context, text string) error {
	if w == nil || w.listener == nil {
		return errors.New("telegram sender is not configured")
	}
	return w.listener.sendChatMessage(ctx, w.chatID, text)
}

// telegramTypingHandler shows a typing indicator while a turn is processed.
type telegramTypingHandler struct {
	listener *TelegramListener
	handler  runtime.Handler
}

func (h *telegramTypingHandler) HandleMessage(ctx context.Context, w runtime.ResponseWriter, msg *runtime.Message) error {
	if h.listener != nil {
		if writer, ok := w.(*telegramWriter); ok {
			if msg != nil && !strings.HasPrefix(strings.TrimSpace(msg.Text), "/") {
				typingCtx, stopTyping := context.WithCancel(ctx)
				defer stopTyping()
				go h.listener.runTypingIndicator(typingCtx, writer.chatID)
			}
		}
	}
	return h.handler.HandleMessage(ctx, w, msg)
}

func (t *TelegramListener) sendChatMessage(ctx context.Context, chatID int64, text string) error {
	send := t.sendMessage
	if send == nil {
		return errors.New("telegram bot is not connected")
	}
	_, err := send(ctx, &bot.SendMessageParams{
		ChatID: chatID,
		Text:   text,
	})
	return err
}

func (t *TelegramListener) runTypingIndicator(ctx context.Context, chatID int64) {
	t.sendTypingAction(ctx, chatID)

	ticker := time.NewTicker(4 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			t.sendTypingAction(ctx, chatID)
		}
	}
}

func (t *TelegramListener) sendTypingAction(ctx context.Context, chatID int64) {
	send := t.sendChatAction
	if send == nil {
		return
	}
	send(ctx, &bot.SendChatActionParams{
		ChatID: chatID,
		Action: models.ChatActionTyping,
	})
}

func messagePreview(text string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
