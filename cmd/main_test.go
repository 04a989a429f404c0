package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/immxrtalbeast/huddle/internal/config"
	"github.com/immxrtalbeast/huddle/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestOpenStorage_CreatesMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "huddle.db")

	db, err := openStorage(path)
	require.NoError(t, err)
	require.NotNil(t, db)
	require.FileExists(t, path)
}

func TestOpenRepositories_FallsBackOnCorruptStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "huddle.db")
	require.NoError(t, os.WriteFile(path, []byte("this is not a database"), 0o644))

	log := slog.New(slog.NewTextHandler(os.Stderr, nil))
	users, rooms, profiles, polls := openRepositories(config.StorageConfig{Path: path}, log)

	// a corrupt file must not fail startup; the process runs on empty
	// in-memory state instead
	require.IsType(t, &repository.InMemoryUserRepository{}, users)
	require.IsType(t, &repository.InMemoryRoomRepository{}, rooms)
	require.IsType(t, &repository.InMemoryProfileRepository{}, profiles)
	require.IsType(t, &repository.InMemoryPollRepository{}, polls)
}
