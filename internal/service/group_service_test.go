package service

import (
	"context"
	"errors"
	"testing"

	"github.com/mymmrac/telego"
	"github.com/stretchr/testify/assert"

	"tg-warn/internal/models"
)

type fakeChatReader struct {
	info  *telego.ChatFullInfo
	err   error
	calls int
}

func (f *fakeChatReader) GetChat(context.Context, *telego.GetChatParams) (*telego.ChatFullInfo, error) {
	f.calls++
	return f.info, f.err
}

func TestGetGroupName(t *testing.T) {
	ctx := context.Background()

	name, link := GetGroupName(ctx, &fakeChatReader{info: &telego.ChatFullInfo{Title: "Go", Username: "golang"}}, testGroup)
	assert.Equal(t, "Go", name)
	assert.Equal(t, "https://t.me/golang", link)

	name, link = GetGroupName(ctx, &fakeChatReader{info: &telego.ChatFullInfo{Title: "Go", InviteLink: "https://t.me/+abc"}}, testGroup)
	assert.Equal(t, "Go", name)
	assert.Equal(t, "https://t.me/+abc", link)

	name, link = GetGroupName(ctx, &fakeChatReader{info: &telego.ChatFullInfo{Title: "Go"}}, testGroup)
	assert.Equal(t, "Go", name)
	assert.Equal(t, "https://t.me/c/1234567890", link)

	name, link = GetGroupName(ctx, &fakeChatReader{err: errors.New("boom")}, testGroup)
	assert.Empty(t, name)
	assert.Equal(t, "https://t.me/c/1234567890", link)
}

func TestGetGroupInfoCaches(t *testing.T) {
	groups := models.NewGroupInfoManager()
	reader := &fakeChatReader{info: &telego.ChatFullInfo{Title: "Go", Username: "golang"}}

	info := GetGroupInfo(context.Background(), reader, groups, testGroup)
	assert.Equal(t, "Go", info.GroupName)
	GetGroupInfo(context.Background(), reader, groups, testGroup)
	assert.Equal(t, 1, reader.calls)

	failing := &fakeChatReader{err: errors.New("boom")}
	info = GetGroupInfo(context.Background(), failing, groups, -100777)
	assert.Equal(t, "-100777", info.GroupName)
	assert.Nil(t, groups.GetGroupInfo(-100777))
}
