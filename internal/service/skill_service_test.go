package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
)

func writeSkill(t *testing.T, dataDir, name, content string) {
	t.Helper()
	dir := filepath.Join(dataDir, "skills")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestSkillList(t *testing.T) {
	dataDir := t.TempDir()
	svc := NewSkillService(dataDir, zap.NewNop())

	t.Run("Missing Directory", func(t *testing.T) {
		skills, err := svc.List()
		require.NoError(t, err)
		assert.Empty(t, skills)
	})

	writeSkill(t, dataDir, "valuation.md", "Explain position valuations with a table.")
	writeSkill(t, dataDir, "charting.md", "Prefer line charts for price history.")
	writeSkill(t, dataDir, "notes.txt", "ignored, not markdown")

	t.Run("Sorted By Name", func(t *testing.T) {
		skills, err := svc.List()
		require.NoError(t, err)
		require.Len(t, skills, 2)
		assert.Equal(t, "charting", skills[0].Name)
		assert.Equal(t, "valuation", skills[1].Name)
	})
}

func TestSkillGet(t *testing.T) {
	dataDir := t.TempDir()
	svc := NewSkillService(dataDir, zap.NewNop())
	writeSkill(t, dataDir, "charting.md", "Prefer line charts.")

	sk, err := svc.Get("charting")
	require.NoError(t, err)
	assert.Equal(t, "Prefer line charts.", sk.Content)

	_, err = svc.Get("missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSkillPromptSection(t *testing.T) {
	dataDir := t.TempDir()
	svc := NewSkillService(dataDir, zap.NewNop())

	t.Run("Empty Without Skills", func(t *testing.T) {
		section, err := svc.PromptSection()
		require.NoError(t, err)
		assert.Empty(t, section)
	})

	writeSkill(t, dataDir, "charting.md", "Prefer line charts.\n")

	t.Run("Renders Headed Sections", func(t *testing.T) {
		section, err := svc.PromptSection()
		require.NoError(t, err)
		assert.Contains(t, section, "## Skill: charting")
		assert.Contains(t, section, "Prefer line charts.")
	})
}
