package bot

import (
	"errors"
	"sync"
	"time"

	"github.com/yenege/ticketbot/internal/messaging"
)

type sentMessage struct {
	chatID int64
	text   string
	opts   *messaging.SendOptions
}

type sentPhoto struct {
	chatID  int64
	url     string
	caption string
}

type restrictCall struct {
	chatID  int64
	userID  int64
	until   time.Time
	canSend bool
}

type fakePlatform struct {
	self messaging.User

	mu      sync.Mutex
	sent    []sentMessage
	photos  []sentPhoto
	sendErr error
	// per-chat send errors, for broadcast failure scenarios
	sendErrs map[int64]error

	member      *messaging.ChatMember
	memberErr   error
	memberCalls int

	chatInfo    *messaging.ChatInfo
	memberCount int
	admins      []messaging.ChatMember

	restricts []restrictCall
	bans      []int64
	unbans    []int64
	pins      []int
	unpins    int
	deletes   []int
	callbacks []string
}

func (f *fakePlatform) SendMessage(chatID int64, text string, opts *messaging.SendOptions) error {
	if err, ok := f.sendErrs[chatID]; ok {
		return err
	}
	if f.sendErr != nil {
		return f.sendErr
	}
	// Notifier sends arrive from detached goroutines.
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, sentMessage{chatID: chatID, text: text, opts: opts})
	return nil
}

func (f *fakePlatform) SendPhoto(chatID int64, photoURL, caption string, opts *messaging.SendOptions) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.photos = append(f.photos, sentPhoto{chatID: chatID, url: photoURL, caption: caption})
	return nil
}

func (f *fakePlatform) AnswerCallback(callbackID, text string) error {
	f.callbacks = append(f.callbacks, callbackID)
	return nil
}

func (f *fakePlatform) GetChatMember(chatID, userID int64) (*messaging.ChatMember, error) {
	f.memberCalls++
	if f.memberErr != nil {
		return nil, f.memberErr
	}
	if f.member == nil {
		return &messaging.ChatMember{Status: "member"}, nil
	}
	return f.member, nil
}

func (f *fakePlatform) GetChat(chatID int64) (*messaging.ChatInfo, error) {
	if f.chatInfo == nil {
		return nil, errors.New("chat not configured")
	}
	return f.chatInfo, nil
}

func (f *fakePlatform) GetChatMemberCount(chatID int64) (int, error) {
	return f.memberCount, nil
}

func (f *fakePlatform) GetChatAdmins(chatID int64) ([]messaging.ChatMember, error) {
	return f.admins, nil
}

func (f *fakePlatform) BanMember(chatID, userID int64) error {
	f.bans = append(f.bans, userID)
	return nil
}

func (f *fakePlatform) UnbanMember(chatID, userID int64) error {
	f.unbans = append(f.unbans, userID)
	return nil
}

func (f *fakePlatform) RestrictMember(chatID, userID int64, until time.Time, canSend bool) error {
	f.restricts = append(f.restricts, restrictCall{chatID: chatID, userID: userID, until: until, canSend: canSend})
	return nil
}

func (f *fakePlatform) PinMessage(chatID int64, messageID int) error {
	f.pins = append(f.pins, messageID)
	return nil
}

func (f *fakePlatform) UnpinMessage(chatID int64) error {
	f.unpins++
	return nil
}

func (f *fakePlatform) DeleteMessage(chatID int64, messageID int) error {
	f.deletes = append(f.deletes, messageID)
	return nil
}

func (f *fakePlatform) Me() messaging.User {
	return f.self
}

type fakeContent struct {
	events []Event
	ticket *Ticket
	stats  *Stats
	recent []Ticket
	err    error

	listCalls   int
	getIDCalls  []int64
	findCalls   int
	lastRef     string
	statsCalls  int
	recentCalls int
}

func (f *fakeContent) ListUpcomingEvents(limit int) ([]Event, error) {
	f.listCalls++
	if f.err != nil {
		return nil, f.err
	}
	if len(f.events) > limit {
		return f.events[:limit], nil
	}
	return f.events, nil
}

func (f *fakeContent) GetEventByID(id int64) (*Event, error) {
	f.getIDCalls = append(f.getIDCalls, id)
	if f.err != nil {
		return nil, f.err
	}
	for i := range f.events {
		if f.events[i].ID == id {
			return &f.events[i], nil
		}
	}
	return nil, nil
}

func (f *fakeContent) FindTicketByReference(ref string) (*Ticket, error) {
	f.findCalls++
	f.lastRef = ref
	if f.err != nil {
		return nil, f.err
	}
	return f.ticket, nil
}

func (f *fakeContent) GetAggregateStats() (*Stats, error) {
	f.statsCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.stats, nil
}

func (f *fakeContent) GetRecentSuccessfulTickets(limit int) ([]Ticket, error) {
	f.recentCalls++
	if f.err != nil {
		return nil, f.err
	}
	return f.recent, nil
}

type fakeSubs struct {
	active      []Subscriber
	listErr     error
	upserts     []Subscriber
	deactivated []int64
}

func (f *fakeSubs) UpsertSubscriber(sub Subscriber) error {
	f.upserts = append(f.upserts, sub)
	return nil
}

func (f *fakeSubs) DeactivateSubscriber(chatID int64) error {
	f.deactivated = append(f.deactivated, chatID)
	return nil
}

func (f *fakeSubs) ListActiveSubscribers() ([]Subscriber, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.active, nil
}

type fakeLinks struct {
	role string
	err  error
}

func (f *fakeLinks) GetAdminRole(platformUserID int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.role, nil
}

type testBot struct {
	dispatcher *Dispatcher
	platform   *fakePlatform
	content    *fakeContent
	subs       *fakeSubs
	notifier   *Notifier
}

func newTestBot(content *fakeContent, adminIDs ...int64) *testBot {
	platform := &fakePlatform{self: messaging.User{ID: 999, Username: "ticketbot", IsBot: true}}
	subs := &fakeSubs{}
	auth := NewAuthorizer(adminIDs, nil, platform)
	broadcaster := NewBroadcaster(platform, subs)
	notifier := NewNotifier(platform, subs)

	var store ContentStore
	if content != nil {
		store = content
	}
	dispatcher := NewDispatcher(platform, auth, store, subs, broadcaster, notifier)

	return &testBot{
		dispatcher: dispatcher,
		platform:   platform,
		content:    content,
		subs:       subs,
		notifier:   notifier,
	}
}

func groupMsg(text string) *messaging.Message {
	return &messaging.Message{
		ID:   10,
		Chat: messaging.Chat{ID: -100, Type: messaging.ChatTypeSupergroup, Title: "Test Group"},
		From: messaging.User{ID: 7, FirstName: "Abel"},
		Text: text,
	}
}

func privateMsg(text string) *messaging.Message {
	return &messaging.Message{
		ID:   10,
		Chat: messaging.Chat{ID: 7, Type: messaging.ChatTypePrivate},
		From: messaging.User{ID: 7, FirstName: "Abel"},
		Text: text,
	}
}

func withReply(msg *messaging.Message, userID int64) *messaging.Message {
	msg.ReplyTo = &messaging.Message{
		ID:   9,
		From: messaging.User{ID: userID, FirstName: "Target"},
	}
	return msg
}
