package service

import (
	"context"
	"testing"
	"time"

	"shortlink-platform/internal/model"
	"shortlink-platform/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func newMappingService(e *testEnv) *MappingService {
	return NewMappingService(e.mappings, nil, zap.NewNop().Sugar())
}

func TestCreateWithPassword(t *testing.T) {
	env := setupEnv(t)
	svc := newMappingService(env)

	m, err := svc.Create(context.Background(), env.user.ID, CreateMappingInput{
		OriginalURL: "https://example.com/secret",
		Password:    "hunter2",
		Category:    "internal",
	})
	require.NoError(t, err)

	assert.True(t, m.ProtectedURL)
	require.NotNil(t, m.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(*m.PasswordHash), []byte("hunter2")))
	assert.Equal(t, "internal", m.Category)
	assert.NotEmpty(t, m.ShortURL)
}

func TestCreateAliasConflictSurfaces(t *testing.T) {
	env := setupEnv(t)
	svc := newMappingService(env)
	ctx := context.Background()

	_, err := svc.Create(ctx, env.user.ID, CreateMappingInput{OriginalURL: "https://example.com/a", CustomAlias: "launch"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, env.user.ID, CreateMappingInput{OriginalURL: "https://example.com/b", CustomAlias: "launch"})
	assert.ErrorIs(t, err, store.ErrAliasTaken)
}

func TestUpdateFields(t *testing.T) {
	env := setupEnv(t)
	svc := newMappingService(env)
	ctx := context.Background()

	m, err := svc.Create(ctx, env.user.ID, CreateMappingInput{OriginalURL: "https://example.com", Password: "hunter2"})
	require.NoError(t, err)

	expires := time.Now().Add(48 * time.Hour)
	inactive := false
	category := "archive"
	updated, err := svc.Update(ctx, m.ShortURL, env.user.ID, UpdateMappingInput{
		ExpiresAt:      &expires,
		IsActive:       &inactive,
		RemovePassword: true,
		Category:       &category,
	})
	require.NoError(t, err)

	assert.False(t, updated.IsActive)
	assert.False(t, updated.ProtectedURL)
	assert.Nil(t, updated.PasswordHash)
	assert.Equal(t, "archive", updated.Category)
	require.NotNil(t, updated.ExpiresAt)
	assert.WithinDuration(t, expires, *updated.ExpiresAt, time.Second)
}

func TestUpdateByStranger(t *testing.T) {
	env := setupEnv(t)
	svc := newMappingService(env)
	ctx := context.Background()

	m, err := svc.Create(ctx, env.user.ID, CreateMappingInput{OriginalURL: "https://example.com"})
	require.NoError(t, err)

	stranger := &model.User{Username: "mallory", Email: "mallory@example.com", IsActive: true, Role: "user"}
	require.NoError(t, stranger.SetPassword("password123"))
	require.NoError(t, env.db.Create(stranger).Error)

	off := false
	_, err = svc.Update(ctx, m.ShortURL, stranger.ID, UpdateMappingInput{IsActive: &off})
	assert.ErrorIs(t, err, ErrUnauthorized)

	assert.ErrorIs(t, svc.Delete(ctx, m.ShortURL, stranger.ID), ErrUnauthorized)
}

func TestDeleteRemovesMappingAndEvents(t *testing.T) {
	env := setupEnv(t)
	svc := newMappingService(env)
	ctx := context.Background()

	m, err := svc.Create(ctx, env.user.ID, CreateMappingInput{OriginalURL: "https://example.com"})
	require.NoError(t, err)
	env.appendClick(t, m.ID, time.Now())

	require.NoError(t, svc.Delete(ctx, m.ShortURL, env.user.ID))

	_, err = env.mappings.FindByCode(ctx, m.ShortURL)
	assert.ErrorIs(t, err, store.ErrNotFound)

	count, err := env.clicks.CountByMapping(ctx, m.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
