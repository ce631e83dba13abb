package conversation

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"requirements-assistant-be/internal/constant"
	"requirements-assistant-be/internal/entity"
	"requirements-assistant-be/internal/model"
	"requirements-assistant-be/internal/repository/unitofwork"
	"requirements-assistant-be/pkg/database"
	"requirements-assistant-be/pkg/prompt"
)

func messages(t *testing.T, lang string) prompt.Messages {
	t.Helper()
	c, err := prompt.LoadCatalog()
	require.NoError(t, err)
	return c.For(lang)
}

func TestFormatRequirements(t *testing.T) {
	es := messages(t, "es")
	en := messages(t, "en")

	assert.Equal(t, "Sin requisitos.", FormatRequirements(nil, es))
	assert.Equal(t, "No requirements.", FormatRequirements(nil, en))

	reqs := []*entity.Requirement{
		{Category: "functional", Number: 1, Description: "Login"},
		{Category: "functional", Number: 2, Description: "Logout"},
		{Category: "security", Number: 1, Description: "Hash passwords"},
	}
	want := "FUNCTIONAL:\n1. Login\n2. Logout\n\n" +
		"PERFORMANCE:\n(empty)\n\n" +
		"USABILITY:\n(empty)\n\n" +
		"SECURITY:\n1. Hash passwords\n\n" +
		"TECHNICAL:\n(empty)"
	assert.Equal(t, want, FormatRequirements(reqs, en))
	assert.Contains(t, FormatRequirements(reqs, es), "PERFORMANCE:\n(sin elementos)")
}

func TestFormatHistory(t *testing.T) {
	es := messages(t, "es")
	en := messages(t, "en")

	assert.Equal(t, "(sin historial)", FormatHistory(nil, es))
	assert.Equal(t, "(no history)", FormatHistory(nil, en))

	newestFirst := []*entity.ChatMessage{
		{Sender: constant.SenderAI, Content: "second"},
		{Sender: constant.SenderUser, Content: "first"},
	}
	assert.Equal(t, "Usuario: first\nIA: second", FormatHistory(newestFirst, es))
	assert.Equal(t, "User: first\nAI: second", FormatHistory(newestFirst, en))
}

func TestContextBuilder_ReadsFromStore(t *testing.T) {
	db, err := database.NewSQLiteDB("file::memory:")
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db, model.All()...))

	ctx := context.Background()
	uow := unitofwork.NewUnitOfWork(db)
	projectId := uuid.New()
	base := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	add := func(offset int, sender string, stage constant.Stage, content string) *entity.ChatMessage {
		m := &entity.ChatMessage{
			Id:        uuid.New(),
			ProjectId: projectId,
			Sender:    sender,
			Stage:     stage,
			Content:   content,
			Timestamp: base.Add(time.Duration(offset) * time.Second),
		}
		require.NoError(t, uow.ChatMessageRepository().Create(ctx, m))
		return m
	}

	add(0, constant.SenderUser, constant.StageInit, "A shop for bikes")
	add(1, constant.SenderAI, constant.StageSoftwareQuestions, "Who buys?")
	add(2, constant.SenderUser, constant.StageSoftwareQuestions, "Cyclists")
	add(3, constant.SenderUser, constant.StageInit, "A later init message")
	last := add(4, constant.SenderUser, constant.StageStall, "Add payments")

	b := NewContextBuilder(3)

	desc, err := b.ProjectDescription(ctx, uow, projectId)
	require.NoError(t, err)
	assert.Equal(t, "A shop for bikes", desc)

	history, err := b.RecentHistory(ctx, uow, projectId, last.Id, messages(t, "en"))
	require.NoError(t, err)
	assert.Equal(t, "AI: Who buys?\nUser: Cyclists\nUser: A later init message", history)

	empty, err := b.ProjectDescription(ctx, uow, uuid.New())
	require.NoError(t, err)
	assert.Empty(t, empty)
}
