package telegram

import (
	"fmt"
	"html"
	"strings"
	"unicode/utf16"

	"github.com/edgard/duebot/internal/reminder"
)

// maxMessageLength is Telegram's limit on message text, in UTF-16 code units.
// Markup is counted too, so the check errs on the short side.
const maxMessageLength = 4096

// colorMarker maps notification colors to an emoji, since Telegram messages have no accent color.
func colorMarker(c reminder.Color) string {
	switch c {
	case reminder.ColorRed:
		return "🔴"
	case reminder.ColorDarkGreen:
		return "🟢"
	default:
		return "⚪"
	}
}

// FormatNotification renders a notification as Telegram HTML.
func FormatNotification(n reminder.Notification) string {
	var sb strings.Builder
	sb.WriteString(formatHeader(n))
	for _, f := range n.Fields {
		sb.WriteString(formatField(f))
	}
	return sb.String()
}

func formatHeader(n reminder.Notification) string {
	var sb strings.Builder
	sb.WriteString(colorMarker(n.Color))
	sb.WriteString(" <b>")
	sb.WriteString(html.EscapeString(n.Title))
	sb.WriteString("</b>")
	if n.Description != "" {
		sb.WriteString("\n")
		sb.WriteString(html.EscapeString(n.Description))
	}
	return sb.String()
}

func formatField(f reminder.Field) string {
	return "\n\n<b>" + html.EscapeString(f.Name) + "</b>\n" + html.EscapeString(f.Value)
}

func moreLine(n int) string {
	return fmt.Sprintf("\n\n<i>+%d more</i>", n)
}

func textLength(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// FormatMessage joins the plain content and the optional notification into
// one HTML message body. Fields that would push the body past Telegram's
// length limit are replaced by a "+N more" line.
func FormatMessage(content string, n *reminder.Notification) string {
	var parts []string
	if content != "" {
		parts = append(parts, html.EscapeString(content))
	}
	if n == nil {
		return strings.Join(parts, "\n\n")
	}
	parts = append(parts, formatHeader(*n))

	text := strings.Join(parts, "\n\n")
	length := textLength(text)
	for i, f := range n.Fields {
		field := formatField(f)
		reserve := 0
		if rest := len(n.Fields) - i - 1; rest > 0 {
			reserve = textLength(moreLine(rest))
		}
		fieldLength := textLength(field)
		if length+fieldLength+reserve > maxMessageLength {
			return text + moreLine(len(n.Fields)-i)
		}
		text += field
		length += fieldLength
	}
	return text
}
