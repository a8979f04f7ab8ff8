package database

import "time"

// Task is a row of the shared task list.
// DueAt and CreatedAt are stored in UTC.
type Task struct {
	ID        string    `db:"id"`
	Title     string    `db:"title"`
	Notes     string    `db:"notes"`
	DueAt     time.Time `db:"due_at"`
	CreatedBy int64     `db:"created_by"`
	CreatedAt time.Time `db:"created_at"`
}

// PostedMessage records a message the bot sent to a chat.
// Telegram bots cannot read chat history, so this table is the bot's view
// of what it has already posted. Notification holds the JSON rendering that
// was attached to the message, or is empty when none was.
type PostedMessage struct {
	ID               int64     `db:"id"`
	ChatID           int64     `db:"chat_id"`
	MessageID        int64     `db:"message_id"`
	AuthorID         int64     `db:"author_id"`
	ReplyToMessageID int64     `db:"reply_to_message_id"`
	Content          string    `db:"content"`
	Notification     string    `db:"notification"`
	CreatedAt        time.Time `db:"created_at"`
}
