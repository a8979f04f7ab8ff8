package handlers

import (
	tgbot "github.com/go-telegram/bot"
)

// RegisteredHandler represents a command handler with its description and middleware.
// It encapsulates all information needed to register and document a command.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Description string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

func command(pattern, description string, handler tgbot.HandlerFunc, mw ...tgbot.Middleware) RegisteredHandler {
	return RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     pattern,
		Description: description,
		Handler:     handler,
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  mw,
	}
}

// RegisterAllCommands initializes and returns a map of all available bot commands.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = command("start", "", NewStartHandler(deps))
	handlers["/help"] = command("help", "Show the available commands", NewHelpHandler(deps))
	handlers["/tasks"] = command("tasks", "List upcoming tasks", NewTasksHandler(deps))

	admin := AdminOnly(deps)

	handlers["/addtask"] = command("addtask", "Add a task (admin only)", NewAddTaskHandler(deps), admin)
	handlers["/deltask"] = command("deltask", "Delete a task (admin only)", NewDeleteTaskHandler(deps), admin)
	handlers["/remind"] = command("remind", "Post tomorrow's reminder now (admin only)", NewRemindHandler(deps), admin)
	handlers["/update"] = command("update", "Check recent reminders for changes (admin only)", NewUpdateHandler(deps), admin)

	return handlers
}
