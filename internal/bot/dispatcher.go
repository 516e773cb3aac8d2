package bot

import (
	"log/slog"
	"strings"

	"github.com/yenege/ticketbot/internal/messaging"
	"github.com/yenege/ticketbot/internal/metrics"
)

// ChatScope restricts where a command may be invoked.
type ChatScope int

const (
	ScopeAny ChatScope = iota
	ScopeGroup
	ScopePrivate
)

// AuthLevel is the authorization tier a command requires.
type AuthLevel int

const (
	AuthNone AuthLevel = iota
	AuthPlatformAdmin
	AuthGroupAdmin
)

// CommandSpec is the registration unit for one command: its scope and
// authorization preconditions plus the handler that runs once both pass.
type CommandSpec struct {
	Name    string
	Prefix  bool // match by prefix; the rest of the token becomes ctx.Suffix
	Scope   ChatScope
	Auth    AuthLevel
	Handler func(ctx *CommandContext) error
}

// CommandContext is the per-invocation view a handler receives. Nothing in
// it outlives the dispatch.
type CommandContext struct {
	Msg    *messaging.Message
	Name   string
	Suffix string // dynamic id for prefix commands, e.g. "12" for /event_12
	Args   []string
}

// Fixed user-visible rejection and fallback replies.
const (
	replyUnknownCommand = "❓ Unknown command. Send /help to see what I can do."
	replyGroupOnly      = "This command only works in groups."
	replyPrivateOnly    = "This command only works in a private chat with me."
	replyNotAdmin       = "🚫 This command is restricted to bot administrators."
	replyNotGroupAdmin  = "🚫 Only group admins can use this command."
	replyUnavailable    = "⚠️ This feature is not available right now."
	replyTryAgain       = "❌ Something went wrong. Please try again later."
)

const (
	upcomingEventsLimit = 5
	recentTicketsLimit  = 10
)

// unknownCommandLabel is the metrics label recorded for unregistered
// command names.
const unknownCommandLabel = "_unknown"

// Dispatcher maps inbound text messages to registered commands and enforces
// each command's preconditions before executing it. It holds no mutable
// state across dispatches; concurrent dispatches for different events are
// safe.
type Dispatcher struct {
	platform    messaging.Platform
	auth        *Authorizer
	content     ContentStore
	subs        SubscriberStore
	broadcaster *Broadcaster
	notifier    *Notifier

	commands map[string]*CommandSpec
	prefixes []*CommandSpec
}

func NewDispatcher(
	platform messaging.Platform,
	auth *Authorizer,
	content ContentStore,
	subs SubscriberStore,
	broadcaster *Broadcaster,
	notifier *Notifier,
) *Dispatcher {
	d := &Dispatcher{
		platform:    platform,
		auth:        auth,
		content:     content,
		subs:        subs,
		broadcaster: broadcaster,
		notifier:    notifier,
		commands:    make(map[string]*CommandSpec),
	}

	d.register(&CommandSpec{Name: "start", Handler: d.handleStart})
	d.register(&CommandSpec{Name: "help", Handler: d.handleStart})
	d.register(&CommandSpec{Name: "events", Handler: d.handleEvents})
	d.register(&CommandSpec{Name: "event_", Prefix: true, Handler: d.handleEventByID})
	d.register(&CommandSpec{Name: "verify", Handler: d.handleVerify})
	d.register(&CommandSpec{Name: "subscribe", Handler: d.handleSubscribe})
	d.register(&CommandSpec{Name: "unsubscribe", Handler: d.handleUnsubscribe})

	d.register(&CommandSpec{Name: "stats", Auth: AuthPlatformAdmin, Handler: d.handleStats})
	d.register(&CommandSpec{Name: "recent", Auth: AuthPlatformAdmin, Handler: d.handleRecent})
	d.register(&CommandSpec{Name: "broadcast", Auth: AuthPlatformAdmin, Handler: d.handleBroadcast})

	d.register(&CommandSpec{Name: "groupinfo", Scope: ScopeGroup, Auth: AuthGroupAdmin, Handler: d.handleGroupInfo})
	d.register(&CommandSpec{Name: "mute", Scope: ScopeGroup, Auth: AuthGroupAdmin, Handler: d.handleMute})
	d.register(&CommandSpec{Name: "unmute", Scope: ScopeGroup, Auth: AuthGroupAdmin, Handler: d.handleUnmute})
	d.register(&CommandSpec{Name: "ban", Scope: ScopeGroup, Auth: AuthGroupAdmin, Handler: d.handleBan})
	d.register(&CommandSpec{Name: "unban", Scope: ScopeGroup, Auth: AuthGroupAdmin, Handler: d.handleUnban})
	d.register(&CommandSpec{Name: "kick", Scope: ScopeGroup, Auth: AuthGroupAdmin, Handler: d.handleKick})
	d.register(&CommandSpec{Name: "pin", Scope: ScopeGroup, Auth: AuthGroupAdmin, Handler: d.handlePin})
	d.register(&CommandSpec{Name: "unpin", Scope: ScopeGroup, Auth: AuthGroupAdmin, Handler: d.handleUnpin})
	d.register(&CommandSpec{Name: "del", Scope: ScopeGroup, Auth: AuthGroupAdmin, Handler: d.handleDel})

	return d
}

func (d *Dispatcher) register(spec *CommandSpec) {
	if spec.Prefix {
		d.prefixes = append(d.prefixes, spec)
		return
	}
	d.commands[spec.Name] = spec
}

// Dispatch parses the message text into a command, enforces the command's
// chat-scope then authorization preconditions in that order, and executes
// the handler. Handler errors are transport-class: logged, answered with a
// generic retry message, and never propagated.
func (d *Dispatcher) Dispatch(msg *messaging.Message) error {
	name, args := parseCommand(msg.Text)
	if name == "" {
		return nil
	}

	spec, suffix := d.lookup(name)
	if spec == nil {
		// Fixed sentinel, never the raw token: user-invented command
		// names would otherwise grow the label set without bound.
		metrics.CommandsTotal.WithLabelValues(unknownCommandLabel, "unknown").Inc()
		return d.reply(msg, replyUnknownCommand)
	}

	switch spec.Scope {
	case ScopeGroup:
		if !msg.Chat.Type.IsGroup() {
			metrics.CommandsTotal.WithLabelValues(spec.Name, "rejected").Inc()
			return d.reply(msg, replyGroupOnly)
		}
	case ScopePrivate:
		if msg.Chat.Type != messaging.ChatTypePrivate {
			metrics.CommandsTotal.WithLabelValues(spec.Name, "rejected").Inc()
			return d.reply(msg, replyPrivateOnly)
		}
	}

	switch spec.Auth {
	case AuthPlatformAdmin:
		if !d.auth.IsPlatformAdmin(msg.From.ID) {
			metrics.CommandsTotal.WithLabelValues(spec.Name, "denied").Inc()
			return d.reply(msg, replyNotAdmin)
		}
	case AuthGroupAdmin:
		if !d.auth.IsGroupAdmin(msg.Chat.ID, msg.From.ID) {
			metrics.CommandsTotal.WithLabelValues(spec.Name, "denied").Inc()
			return d.reply(msg, replyNotGroupAdmin)
		}
	}

	ctx := &CommandContext{Msg: msg, Name: spec.Name, Suffix: suffix, Args: args}
	if err := spec.Handler(ctx); err != nil {
		slog.Error("command failed",
			"command", spec.Name,
			"chat_id", msg.Chat.ID,
			"user_id", msg.From.ID,
			"error", err)
		metrics.CommandsTotal.WithLabelValues(spec.Name, "error").Inc()
		return d.reply(msg, replyTryAgain)
	}

	metrics.CommandsTotal.WithLabelValues(spec.Name, "ok").Inc()
	return nil
}

func (d *Dispatcher) lookup(name string) (*CommandSpec, string) {
	if spec, ok := d.commands[name]; ok {
		return spec, ""
	}
	for _, spec := range d.prefixes {
		if strings.HasPrefix(name, spec.Name) {
			return spec, strings.TrimPrefix(name, spec.Name)
		}
	}
	return nil, ""
}

func (d *Dispatcher) reply(msg *messaging.Message, text string) error {
	if err := d.platform.SendMessage(msg.Chat.ID, text, nil); err != nil {
		slog.Error("failed to send reply", "chat_id", msg.Chat.ID, "error", err)
	}
	return nil
}

// parseCommand extracts the command name and arguments from message text.
// It handles "/command", "/command args", and "/command@botname args"; the
// name is lowercased, arguments keep their original case.
func parseCommand(text string) (string, []string) {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "/") {
		return "", nil
	}

	fields := strings.Fields(text[1:])
	if len(fields) == 0 {
		return "", nil
	}

	name := fields[0]
	if at := strings.Index(name, "@"); at != -1 {
		name = name[:at]
	}

	args := fields[1:]
	if len(args) == 0 {
		args = nil
	}
	return strings.ToLower(name), args
}
