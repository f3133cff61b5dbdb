package telegram

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"leadfunnel/entity"
	"leadfunnel/internal/lib/sl"

	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// Notifier posts a short card for every accepted lead to an admin chat.
type Notifier struct {
	log    *slog.Logger
	api    *tgbotapi.Bot
	chatId int64
}

func NewNotifier(apiKey string, chatId int64, log *slog.Logger) (*Notifier, error) {
	api, err := tgbotapi.NewBot(apiKey, nil)
	if err != nil {
		return nil, fmt.Errorf("creating api instance: %v", err)
	}
	return &Notifier{
		log:    log.With(sl.Module("telegram")),
		api:    api,
		chatId: chatId,
	}, nil
}

func (n *Notifier) Notify(ev entity.LeadEvent) {
	text := formatLead(ev)

	_, err := n.api.SendMessage(n.chatId, text, &tgbotapi.SendMessageOpts{
		ParseMode: "MarkdownV2",
	})
	if err == nil {
		return
	}
	n.log.With(slog.Int64("id", n.chatId)).Warn("sending lead card", sl.Err(err))

	// plain text retry drops the markup escapes
	_, err = n.api.SendMessage(n.chatId, plain(ev), &tgbotapi.SendMessageOpts{})
	if err != nil {
		n.log.With(slog.Int64("id", n.chatId)).Error("sending plain lead card", sl.Err(err))
	}
}

var markdownEscaper = strings.NewReplacer(
	`\`, `\\`, "_", `\_`, "*", `\*`, "[", `\[`, "]", `\]`, "(", `\(`, ")", `\)`,
	"~", `\~`, "`", "\\`", ">", `\>`, "#", `\#`, "+", `\+`, "-", `\-`,
	"=", `\=`, "|", `\|`, "{", `\{`, "}", `\}`, ".", `\.`, "!", `\!`,
)

func escape(s string) string {
	return markdownEscaper.Replace(s)
}

func formatLead(ev entity.LeadEvent) string {
	var b strings.Builder
	b.WriteString("*Novo lead* " + escape(ev.VariantID) + " \\(" + escape(ev.Terminal) + "\\)\n")
	for _, line := range lines(ev) {
		b.WriteString("*" + escape(line[0]) + ":* " + escape(line[1]) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func plain(ev entity.LeadEvent) string {
	var b strings.Builder
	b.WriteString("Novo lead " + ev.VariantID + " (" + ev.Terminal + ")\n")
	for _, line := range lines(ev) {
		b.WriteString(line[0] + ": " + line[1] + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func lines(ev entity.LeadEvent) [][2]string {
	out := [][2]string{
		{"Nome", ev.Name},
		{"Telefone", ev.Phone},
	}
	if ev.Email != "" {
		out = append(out, [2]string{"Email", ev.Email})
	}
	if ev.UtmSource != "" {
		out = append(out, [2]string{"Origem", ev.UtmSource + " / " + ev.UtmCampaign})
	}

	keys := make([]string, 0, len(ev.Fields))
	for k := range ev.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		out = append(out, [2]string{k, fmt.Sprint(ev.Fields[k])})
	}
	return out
}
