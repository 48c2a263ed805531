package handler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/require"

	"tg-warn/internal/config"
	"tg-warn/internal/exchange"
	"tg-warn/internal/models"
	"tg-warn/internal/service"
	"tg-warn/internal/storage"
)

const (
	testGroup    int64 = -1001234567890
	testAdmin    int64 = 2002
	testUser     int64 = 1001
	testReporter int64 = 3003
	testSelf     int64 = 900
	testChannel  int64 = -1009999
)

// fakeBot records every Telegram call
type fakeBot struct {
	mu       sync.Mutex
	nextID   int
	sent     []*telego.SendMessageParams
	docs     []*telego.SendDocumentParams
	edited   []*telego.EditMessageTextParams
	deleted  []int
	answers  []*telego.AnswerCallbackQueryParams
	banned   []int64
	unbanned []int64
	left     []int64
	admins   []telego.ChatMember
}

func (b *fakeBot) SendMessage(_ context.Context, params *telego.SendMessageParams) (*telego.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.sent = append(b.sent, params)
	return &telego.Message{MessageID: 500 + b.nextID, Chat: telego.Chat{ID: params.ChatID.ID}}, nil
}

func (b *fakeBot) SendDocument(_ context.Context, params *telego.SendDocumentParams) (*telego.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.nextID++
	b.docs = append(b.docs, params)
	return &telego.Message{MessageID: 500 + b.nextID}, nil
}

func (b *fakeBot) EditMessageText(_ context.Context, params *telego.EditMessageTextParams) (*telego.Message, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.edited = append(b.edited, params)
	return &telego.Message{MessageID: params.MessageID}, nil
}

func (b *fakeBot) DeleteMessage(_ context.Context, params *telego.DeleteMessageParams) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, params.MessageID)
	return nil
}

func (b *fakeBot) AnswerCallbackQuery(_ context.Context, params *telego.AnswerCallbackQueryParams) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.answers = append(b.answers, params)
	return nil
}

func (b *fakeBot) BanChatMember(_ context.Context, params *telego.BanChatMemberParams) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.banned = append(b.banned, params.UserID)
	return nil
}

func (b *fakeBot) UnbanChatMember(_ context.Context, params *telego.UnbanChatMemberParams) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unbanned = append(b.unbanned, params.UserID)
	return nil
}

func (b *fakeBot) GetChat(_ context.Context, params *telego.GetChatParams) (*telego.ChatFullInfo, error) {
	return &telego.ChatFullInfo{ID: params.ChatID.ID, Title: "Test group", Username: "testgroup"}, nil
}

func (b *fakeBot) GetChatAdministrators(context.Context, *telego.GetChatAdministratorsParams) ([]telego.ChatMember, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.admins, nil
}

func (b *fakeBot) LeaveChat(_ context.Context, params *telego.LeaveChatParams) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.left = append(b.left, params.ChatID.ID)
	return nil
}

func (b *fakeBot) Sent() []*telego.SendMessageParams {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]*telego.SendMessageParams(nil), b.sent...)
}

func (b *fakeBot) Deleted() []int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]int(nil), b.deleted...)
}

type testEnv struct {
	h     *Handler
	bot   *fakeBot
	state *models.State
	clock *clockwork.FakeClock
	store *storage.FileStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{}
	cfg.Bot.Language = models.LangEnglish
	cfg.Warn.ProjectName = "WARN"
	cfg.Warn.ProjectLink = "https://example.org/warn"
	cfg.Warn.Version = "1.2.3"
	cfg.Warn.Prefixes = []string{"/", "!"}
	cfg.Warn.SenderName = "WARN"
	cfg.Warn.TestGroupID = -100555
	cfg.Warn.ExchangeChannel = testChannel

	store, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	bot := &fakeBot{}
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))
	state := models.NewState(models.GroupConfig{Limit: 3})
	state.Admins.Set(testGroup, models.NewIDSet(testAdmin))

	debug := service.NewDebugSender(bot, 0, cfg.Warn.ProjectName, cfg.Warn.ProjectLink, state.Groups, models.LangEnglish)
	h := New(cfg, bot, telego.User{ID: testSelf, IsBot: true, Username: "warn_bot"}, Deps{
		State:     state,
		Moderator: service.NewModerator(state, bot, debug, nil, clock, models.LangEnglish),
		Admins:    service.NewAdminService(bot, state.Admins, testSelf, 0, nil),
		Debug:     debug,
		Persister: service.NewPersister(store, state),
		Exchange:  exchange.New(bot, testChannel, cfg.Warn.SenderName, 0),
		Deleter:   NewDeleter(bot, clock),
		Clock:     clock,
	})

	return &testEnv{h: h, bot: bot, state: state, clock: clock, store: store}
}

func groupMessage(id int, from int64, text string, reply *telego.Message) telego.Message {
	return telego.Message{
		MessageID:      id,
		Chat:           telego.Chat{ID: testGroup, Type: telego.ChatTypeSupergroup},
		From:           &telego.User{ID: from},
		Text:           text,
		ReplyToMessage: reply,
	}
}

func userMessage(id int, from int64) *telego.Message {
	return &telego.Message{
		MessageID: id,
		Chat:      telego.Chat{ID: testGroup, Type: telego.ChatTypeSupergroup},
		From:      &telego.User{ID: from},
		Text:      "spam spam",
	}
}

// SentTo returns the messages posted in one chat
func (b *fakeBot) SentTo(chatID int64) []*telego.SendMessageParams {
	var out []*telego.SendMessageParams
	for _, params := range b.Sent() {
		if params.ChatID.ID == chatID {
			out = append(out, params)
		}
	}
	return out
}
