// Package telegram connects a Telegram bot to the channel layer over the
// long-poll API.
package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/chatlinkhq/chatlink/internal/channel"
)

type TelegramAdapter struct {
	logger *slog.Logger
}

func NewTelegramAdapter(log *slog.Logger) *TelegramAdapter {
	if log == nil {
		log = slog.Default()
	}
	return &TelegramAdapter{
		logger: log.With(slog.String("adapter", "telegram")),
	}
}

func (a *TelegramAdapter) Type() channel.Type {
	return Type
}

func (a *TelegramAdapter) Connect(ctx context.Context, cfg channel.ChannelConfig, handler channel.InboundHandler) (channel.Connection, error) {
	a.logger.Info("start", slog.String("config_id", cfg.ID))
	telegramCfg, err := parseConfig(cfg)
	if err != nil {
		a.logger.Error("decode config failed", slog.String("config_id", cfg.ID), slog.Any("error", err))
		return nil, err
	}
	bot, err := tgbotapi.NewBotAPI(telegramCfg.BotToken)
	if err != nil {
		a.logger.Error("create bot failed", slog.String("config_id", cfg.ID), slog.Any("error", err))
		return nil, err
	}
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 30
	updates := bot.GetUpdatesChan(updateConfig)
	connCtx, cancel := context.WithCancel(ctx)

	go func() {
		for {
			select {
			case <-connCtx.Done():
				a.logger.Info("stop", slog.String("config_id", cfg.ID))
				bot.StopReceivingUpdates()
				return
			case update, ok := <-updates:
				if !ok {
					a.logger.Info("updates channel closed", slog.String("config_id", cfg.ID))
					return
				}
				if update.Message == nil {
					continue
				}
				msg, ok := a.normalizeInbound(update.Message)
				if !ok {
					continue
				}
				a.logger.Info(
					"inbound received",
					slog.String("config_id", cfg.ID),
					slog.String("chat_id", msg.ReplyTarget),
					slog.String("user_id", msg.Sender.Attribute("user_id")),
				)
				go func() {
					if err := handler(connCtx, cfg, msg); err != nil {
						a.logger.Error("handle inbound failed", slog.String("config_id", cfg.ID), slog.Any("error", err))
					}
				}()
			}
		}
	}()

	stop := func(context.Context) error {
		a.logger.Info("stop", slog.String("config_id", cfg.ID))
		cancel()
		bot.StopReceivingUpdates()
		return nil
	}
	return channel.NewConnection(cfg, stop), nil
}

func (a *TelegramAdapter) Send(ctx context.Context, cfg channel.ChannelConfig, msg channel.OutboundMessage) error {
	telegramCfg, err := parseConfig(cfg)
	if err != nil {
		a.logger.Error("decode config failed", slog.String("config_id", cfg.ID), slog.Any("error", err))
		return err
	}
	to := strings.TrimSpace(msg.Target)
	if to == "" {
		return fmt.Errorf("telegram target is required")
	}
	if msg.Message.IsEmpty() {
		return fmt.Errorf("message is required")
	}
	bot, err := tgbotapi.NewBotAPI(telegramCfg.BotToken)
	if err != nil {
		a.logger.Error("create bot failed", slog.String("config_id", cfg.ID), slog.Any("error", err))
		return err
	}
	text := msg.Message.PlainText()
	if len(msg.Message.Attachments) > 0 {
		usedCaption := false
		for _, att := range msg.Message.Attachments {
			caption := strings.TrimSpace(att.Caption)
			if caption == "" && !usedCaption && text != "" {
				caption = text
				usedCaption = true
			}
			if err := sendTelegramAttachment(bot, to, att, caption); err != nil {
				a.logger.Error("send attachment failed", slog.String("config_id", cfg.ID), slog.Any("error", err))
				return err
			}
		}
		if text != "" && !usedCaption {
			return sendTelegramText(bot, to, text)
		}
		return nil
	}
	return sendTelegramText(bot, to, text)
}

func (a *TelegramAdapter) normalizeInbound(msg *tgbotapi.Message) (channel.InboundMessage, bool) {
	text := strings.TrimSpace(msg.Text)
	caption := strings.TrimSpace(msg.Caption)
	if text == "" && caption != "" {
		text = caption
	}
	if text == "" {
		return channel.InboundMessage{}, false
	}
	externalID, displayName, attrs := resolveTelegramSender(msg)
	chatID := ""
	if msg.Chat != nil {
		chatID = strconv.FormatInt(msg.Chat.ID, 10)
	}
	return channel.InboundMessage{
		Channel: Type,
		Message: channel.Message{
			ID:   strconv.Itoa(msg.MessageID),
			Text: text,
		},
		ReplyTarget: chatID,
		Sender: channel.Identity{
			ExternalID:  externalID,
			DisplayName: displayName,
			Attributes:  attrs,
		},
		ReceivedAt: time.Unix(int64(msg.Date), 0).UTC(),
		Source:     "telegram",
	}, true
}

func resolveTelegramSender(msg *tgbotapi.Message) (string, string, map[string]string) {
	attrs := map[string]string{}
	if msg == nil {
		return "", "", attrs
	}
	if msg.Chat != nil {
		attrs["chat_id"] = strconv.FormatInt(msg.Chat.ID, 10)
	}
	if msg.From == nil {
		return "", "", attrs
	}
	userID := strconv.FormatInt(msg.From.ID, 10)
	username := strings.TrimSpace(msg.From.UserName)
	attrs["user_id"] = userID
	if username != "" {
		attrs["username"] = username
	}
	displayName := username
	if displayName == "" {
		displayName = strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
	}
	return userID, displayName, attrs
}

func sendTelegramText(bot *tgbotapi.BotAPI, target string, text string) error {
	if strings.HasPrefix(target, "@") {
		message := tgbotapi.NewMessageToChannel(target, text)
		_, err := bot.Send(message)
		return err
	}
	chatID, err := strconv.ParseInt(target, 10, 64)
	if err != nil {
		return fmt.Errorf("telegram target must be @username or chat_id")
	}
	message := tgbotapi.NewMessage(chatID, text)
	_, err = bot.Send(message)
	return err
}

func sendTelegramAttachment(bot *tgbotapi.BotAPI, target string, att channel.Attachment, caption string) error {
	if strings.TrimSpace(att.URL) == "" {
		return fmt.Errorf("attachment url is required")
	}
	file := tgbotapi.FileURL(att.URL)
	isChannel := strings.HasPrefix(target, "@")
	switch att.Type {
	case channel.AttachmentImage:
		var photo tgbotapi.PhotoConfig
		if isChannel {
			photo = tgbotapi.NewPhotoToChannel(target, file)
		} else {
			chatID, err := strconv.ParseInt(target, 10, 64)
			if err != nil {
				return fmt.Errorf("telegram target must be @username or chat_id")
			}
			photo = tgbotapi.NewPhoto(chatID, file)
		}
		photo.Caption = caption
		_, err := bot.Send(photo)
		return err
	case channel.AttachmentFile, "":
		chatID, err := strconv.ParseInt(target, 10, 64)
		if err != nil && !isChannel {
			return fmt.Errorf("telegram target must be @username or chat_id")
		}
		document := tgbotapi.NewDocument(chatID, file)
		if isChannel {
			document.ChatID = 0
			document.ChannelUsername = target
		}
		document.Caption = caption
		_, err = bot.Send(document)
		return err
	default:
		return fmt.Errorf("unsupported attachment type: %s", att.Type)
	}
}
