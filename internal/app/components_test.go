package app

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gcccs/careerlink/internal/config"
)

func TestNewGemini_DisabledWithoutKey(t *testing.T) {
	gemini, err := NewGemini(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, gemini)
}

func TestNewVectorIndex_DisabledWithoutURL(t *testing.T) {
	index, err := NewVectorIndex(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, index)
}

func TestNewStorage(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "uploads")
	cfg := &config.Config{Storage: config.StorageConfig{Driver: "local", UploadPath: dir}}

	storage, err := NewStorage(context.Background(), cfg)
	require.NoError(t, err)
	assert.NotNil(t, storage)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	cfg.Storage.Driver = "ftp"
	_, err = NewStorage(context.Background(), cfg)
	assert.EqualError(t, err, `unknown storage driver "ftp"`)
}

func TestNewIdentity(t *testing.T) {
	cfg := &config.Config{Auth: config.AuthConfig{Provider: "local", JWTSecret: "s", JWTExpirationHours: 1}}

	provider, local, err := NewIdentity(context.Background(), cfg, nil)
	require.NoError(t, err)
	assert.NotNil(t, provider)
	assert.NotNil(t, local)

	cfg.Auth.JWTSecret = ""
	_, _, err = NewIdentity(context.Background(), cfg, nil)
	assert.Error(t, err)

	cfg.Auth.Provider = "ldap"
	_, _, err = NewIdentity(context.Background(), cfg, nil)
	assert.EqualError(t, err, `unknown auth provider "ldap"`)
}
