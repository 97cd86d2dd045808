package analytics

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// TitleMapping maps raw course titles, as stored at checkout time, to the
// names shown on the dashboard. Titles without an entry are shown as-is.
type TitleMapping map[string]string

// Canonical returns the display title for raw.
func (m TitleMapping) Canonical(raw string) string {
	raw = strings.TrimSpace(raw)
	if canonical, ok := m[raw]; ok {
		return canonical
	}
	return raw
}

type titleEntry struct {
	Raw       string `validate:"required"`
	Canonical string `validate:"required"`
}

var validate = validator.New()

// ParseTitleMapping reads a YAML (or JSON) document of raw: canonical
// pairs. Blank titles on either side are rejected.
func ParseTitleMapping(data []byte) (TitleMapping, error) {
	raw := map[string]string{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse course titles: %w", err)
	}

	mapping := make(TitleMapping, len(raw))
	for k, v := range raw {
		entry := titleEntry{Raw: strings.TrimSpace(k), Canonical: strings.TrimSpace(v)}
		if err := validate.Struct(entry); err != nil {
			return nil, fmt.Errorf("course title %q: %w", k, err)
		}
		mapping[entry.Raw] = entry.Canonical
	}
	return mapping, nil
}
