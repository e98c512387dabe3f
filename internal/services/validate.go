package services

import (
	"strings"
	"unicode/utf8"

	"github.com/nedirbay/project-management-own-version/internal/models"
	"github.com/nedirbay/project-management-own-version/internal/utils"
)

// requiredText trims s and checks it is non-empty and at most max runes.
func requiredText(field, s string, max int) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", validationf("%s is required", field)
	}
	if utf8.RuneCountInString(s) > max {
		return "", validationf("%s must be at most %d characters", field, max)
	}
	return s, nil
}

// colorOrGenerate validates a hex color, generating one when s is empty.
func colorOrGenerate(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return utils.GenerateColor()
	}
	if !utils.IsHexColor(s) {
		return "", ErrInvalidColor
	}
	return s, nil
}

// Enum fields default when absent on create and are strict everywhere else:
// a non-empty value that does not parse is a validation error.

func parseTaskStatus(s string, fallback models.TaskStatus) (models.TaskStatus, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	v, err := models.ParseTaskStatus(strings.TrimSpace(s))
	if err != nil {
		return "", validationf("%v", err)
	}
	return v, nil
}

func parsePriority(s string, fallback models.Priority) (models.Priority, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	v, err := models.ParsePriority(strings.TrimSpace(s))
	if err != nil {
		return "", validationf("%v", err)
	}
	return v, nil
}

func parseProjectStatus(s string, fallback models.ProjectStatus) (models.ProjectStatus, error) {
	if strings.TrimSpace(s) == "" {
		return fallback, nil
	}
	v, err := models.ParseProjectStatus(strings.TrimSpace(s))
	if err != nil {
		return "", validationf("%v", err)
	}
	return v, nil
}

// cleanTags trims, drops empties and de-duplicates tags, keeping first occurrence order.
func cleanTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	result := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		result = append(result, t)
	}
	return result
}
