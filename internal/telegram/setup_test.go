package telegram

import (
	"context"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/google/go-cmp/cmp"

	"github.com/edgard/duebot/internal/bot/handlers"
)

func TestApplyMiddlewareOrder(t *testing.T) {
	t.Parallel()

	var calls []string
	mw := func(name string) bot.Middleware {
		return func(next bot.HandlerFunc) bot.HandlerFunc {
			return func(ctx context.Context, b *bot.Bot, u *models.Update) {
				calls = append(calls, name)
				next(ctx, b, u)
			}
		}
	}
	h := applyMiddleware(func(context.Context, *bot.Bot, *models.Update) {
		calls = append(calls, "handler")
	}, []bot.Middleware{mw("outer"), mw("inner")})

	h(context.Background(), nil, &models.Update{})

	if diff := cmp.Diff([]string{"outer", "inner", "handler"}, calls); diff != "" {
		t.Errorf("call order mismatch (-want +got):\n%s", diff)
	}
}

func TestCommandMenu(t *testing.T) {
	t.Parallel()

	got := CommandMenu(map[string]handlers.RegisteredHandler{
		"/tasks":  {Pattern: "tasks", Description: "List upcoming tasks"},
		"/remind": {Pattern: "remind", Description: "Post the reminder now"},
		"/hidden": {Pattern: "hidden"},
	})
	want := []models.BotCommand{
		{Command: "remind", Description: "Post the reminder now"},
		{Command: "tasks", Description: "List upcoming tasks"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("CommandMenu() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewTelegramBotRequiresToken(t *testing.T) {
	t.Parallel()

	if _, err := NewTelegramBot("", nil); err == nil {
		t.Error("NewTelegramBot(\"\") error = nil, want error")
	}
	if got := tokenPrefix("short"); got != "..." {
		t.Errorf("tokenPrefix(short) = %q", got)
	}
}
