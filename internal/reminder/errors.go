package reminder

import "errors"

var (
	// ErrDataUnavailable is returned when the task snapshot cannot be obtained.
	ErrDataUnavailable = errors.New("task data unavailable")
	// ErrConfigMissing is returned when the reminder channel or role is not configured.
	ErrConfigMissing = errors.New("reminder channel or role not configured")
	// ErrSend wraps failures to post a message.
	ErrSend = errors.New("failed to send message")
	// ErrNotRecorded is returned by a Messenger when a message was posted
	// but could not be recorded; the message is live and must not be resent.
	ErrNotRecorded = errors.New("message posted but not recorded")
	// ErrFetch wraps failures to list recent messages.
	ErrFetch = errors.New("failed to fetch recent messages")
)
