package service

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/finsight/finsight/internal/domain"
)

// SkillService loads markdown prompt packs from <dataDir>/skills. Each .md
// file becomes one skill whose content is appended to the chat system prompt,
// so assistant behavior can be tuned without redeploying.
type SkillService struct {
	dir    string
	logger *zap.Logger
}

// NewSkillService creates a skill service reading from dataDir/skills
func NewSkillService(dataDir string, logger *zap.Logger) *SkillService {
	return &SkillService{dir: filepath.Join(dataDir, "skills"), logger: logger}
}

// List returns all skills sorted by name. A missing skills directory is not
// an error; the assistant simply runs with the base prompt.
func (s *SkillService) List() ([]domain.Skill, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read skills dir: %w", err)
	}

	var skills []domain.Skill
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		content, err := os.ReadFile(filepath.Join(s.dir, name))
		if err != nil {
			return nil, fmt.Errorf("read skill %s: %w", name, err)
		}
		skills = append(skills, domain.Skill{
			Name:    strings.TrimSuffix(name, ".md"),
			Content: string(content),
		})
	}
	sort.Slice(skills, func(i, j int) bool { return skills[i].Name < skills[j].Name })
	return skills, nil
}

// Get returns a single skill by name
func (s *SkillService) Get(name string) (*domain.Skill, error) {
	skills, err := s.List()
	if err != nil {
		return nil, err
	}
	for i := range skills {
		if skills[i].Name == name {
			return &skills[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

// PromptSection renders all skills into one system prompt section
func (s *SkillService) PromptSection() (string, error) {
	skills, err := s.List()
	if err != nil {
		return "", err
	}
	if len(skills) == 0 {
		return "", nil
	}

	var sb strings.Builder
	for _, sk := range skills {
		sb.WriteString("\n\n## Skill: ")
		sb.WriteString(sk.Name)
		sb.WriteString("\n\n")
		sb.WriteString(strings.TrimSpace(sk.Content))
	}
	return sb.String(), nil
}
