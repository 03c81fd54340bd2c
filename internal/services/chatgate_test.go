package services

import (
	"testing"

	"runam-backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorize_WriteOnActiveTask(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	assert.NoError(t, f.chatGate.Authorize(task.ID, "poster-1", models.ChatActionWrite))
	assert.NoError(t, f.chatGate.Authorize(task.ID, "runner-1", models.ChatActionWrite))
}

func TestAuthorize_NonParticipantDenied(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	for _, action := range []models.ChatAction{models.ChatActionRead, models.ChatActionWrite} {
		err := f.chatGate.Authorize(task.ID, "stranger", action)
		require.Error(t, err)
		assert.Equal(t, models.ErrForbidden, models.KindOf(err))
	}
}

// Chat history survives closure: reads stay allowed, writes report TaskClosed
func TestAuthorize_ClosedTask(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	_, err := f.completion.MarkCompleted(task.ID, "runner-1")
	require.NoError(t, err)
	_, err = f.completion.ConfirmCompletion(task.ID, "poster-1")
	require.NoError(t, err)

	for _, user := range []string{"poster-1", "runner-1"} {
		assert.NoError(t, f.chatGate.Authorize(task.ID, user, models.ChatActionRead))

		err := f.chatGate.Authorize(task.ID, user, models.ChatActionWrite)
		require.Error(t, err)
		assert.Equal(t, models.ErrTaskClosed, models.KindOf(err))
	}
}

// Chat history survives freezing: reads stay allowed, writes report UnderReview
func TestAuthorize_FrozenTask(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	_, err := f.gate.FileReport("poster-1", validReport(task.ID))
	require.NoError(t, err)

	assert.NoError(t, f.chatGate.Authorize(task.ID, "runner-1", models.ChatActionRead))

	err = f.chatGate.Authorize(task.ID, "runner-1", models.ChatActionWrite)
	require.Error(t, err)
	assert.Equal(t, models.ErrUnderReview, models.KindOf(err))
}

func TestAuthorize_OpenTaskWriteDenied(t *testing.T) {
	f := newFixture()
	task := newOpenTask(t, f.tasks, "poster-1")

	err := f.chatGate.Authorize(task.ID, "poster-1", models.ChatActionWrite)
	require.Error(t, err)
	assert.Equal(t, models.ErrInvalidTransition, models.KindOf(err))
}

func TestChatForTask_LazyCreation(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	chat, err := f.chatGate.ChatForTask(task.ID, "poster-1")
	require.NoError(t, err)
	assert.Equal(t, task.ID, chat.TaskID)
	assert.ElementsMatch(t, []string{"poster-1", "runner-1"}, chat.Participants)

	again, err := f.chatGate.ChatForTask(task.ID, "runner-1")
	require.NoError(t, err)
	assert.Equal(t, chat.ID, again.ID)
}

// No chat exists before acceptance, so a chat can never be created with a
// stale participant list that misses the runner.
func TestChatForTask_NoneBeforeAccept(t *testing.T) {
	f := newFixture()
	task := newOpenTask(t, f.tasks, "poster-1")

	_, err := f.chatGate.ChatForTask(task.ID, "poster-1")
	require.Error(t, err)
	assert.Equal(t, models.ErrInvalidTransition, models.KindOf(err))

	_, err = f.arbiter.Accept(task.ID, "runner-1")
	require.NoError(t, err)

	chat, err := f.chatGate.ChatForTask(task.ID, "poster-1")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"poster-1", "runner-1"}, chat.Participants)

	require.Len(t, f.chatGate.MyChats("runner-1"), 1)
	assert.Equal(t, chat.ID, f.chatGate.MyChats("runner-1")[0].ID)

	_, err = f.chatGate.SendMessage(chat.ID, "runner-1", "picked it up")
	require.NoError(t, err)
}

func TestSendMessage_FullFlow(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	chat, err := f.chatGate.ChatForTask(task.ID, "poster-1")
	require.NoError(t, err)

	msg, err := f.chatGate.SendMessage(chat.ID, "runner-1", "  dey come now  ")
	require.NoError(t, err)
	assert.Equal(t, "dey come now", msg.Text)

	messages, err := f.chatGate.Messages(chat.ID, "poster-1")
	require.NoError(t, err)
	require.Len(t, messages, 1)

	_, err = f.chatGate.SendMessage(chat.ID, "runner-1", "   ")
	require.Error(t, err)
	assert.Equal(t, models.ErrValidation, models.KindOf(err))

	_, err = f.chatGate.SendMessage(chat.ID, "stranger", "let me in")
	require.Error(t, err)
	assert.Equal(t, models.ErrForbidden, models.KindOf(err))
}

func TestSendMessage_LockedWhenFrozen(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	chat, err := f.chatGate.ChatForTask(task.ID, "poster-1")
	require.NoError(t, err)
	_, err = f.chatGate.SendMessage(chat.ID, "poster-1", "abeg help me")
	require.NoError(t, err)

	_, err = f.gate.FileReport("poster-1", validReport(task.ID))
	require.NoError(t, err)

	_, err = f.chatGate.SendMessage(chat.ID, "runner-1", "wetin happen?")
	require.Error(t, err)
	assert.Equal(t, models.ErrUnderReview, models.KindOf(err))

	// History still readable while locked
	messages, err := f.chatGate.Messages(chat.ID, "runner-1")
	require.NoError(t, err)
	assert.Len(t, messages, 1)
}

func TestMyChats(t *testing.T) {
	f := newFixture()
	task := f.activeTask(t)

	_, err := f.chatGate.ChatForTask(task.ID, "poster-1")
	require.NoError(t, err)

	assert.Len(t, f.chatGate.MyChats("runner-1"), 1)
	assert.Empty(t, f.chatGate.MyChats("stranger"))
}
