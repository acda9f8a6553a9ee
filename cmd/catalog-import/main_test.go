package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/autoscheduler/autoscheduler/internal/config"
	"github.com/autoscheduler/autoscheduler/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSections(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sections.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"crn": 12345, "subject": "CSCE"}]`), 0o600))

	sections, err := readSections(path)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.NotNil(t, sections[0].CRN)
	assert.Equal(t, 12345, *sections[0].CRN)

	require.NoError(t, os.WriteFile(path, []byte(`{"not":"a list"}`), 0o600))
	_, err = readSections(path)
	assert.ErrorIs(t, err, domain.ErrInvalidFormat)

	_, err = readSections(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestRunValidatesArguments(t *testing.T) {
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	t.Setenv("AUTOSCHEDULER_CONFIG_FILE", "")

	err := run(context.Background(), log, "", "", "-")
	assert.ErrorContains(t, err, "-term is required")

	t.Setenv("AUTOSCHEDULER_DATABASE_URL", "")
	err = run(context.Background(), log, "", "202031", "-")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}
