package repo

import (
	"fmt"
	"strings"
)

// ConfigValue reads a repository config value by its dotted key, e.g.
// "user.name" or "remote.origin.url".
func (r *Repo) ConfigValue(key string) (string, error) {
	section, subsection, option, err := splitConfigKey(key)
	if err != nil {
		return "", err
	}
	cfg, err := r.gitRepo.Config()
	if err != nil {
		return "", fmt.Errorf("read config: %w", err)
	}
	sec := cfg.Raw.Section(section)
	if subsection != "" {
		return sec.Subsection(subsection).Option(option), nil
	}
	return sec.Option(option), nil
}

// SetConfigValue writes a repository config value by its dotted key.
func (r *Repo) SetConfigValue(key, value string) error {
	section, subsection, option, err := splitConfigKey(key)
	if err != nil {
		return err
	}
	cfg, err := r.gitRepo.Config()
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if subsection != "" {
		cfg.Raw.Section(section).Subsection(subsection).SetOption(option, value)
	} else {
		cfg.Raw.Section(section).SetOption(option, value)
	}
	if err := r.gitRepo.SetConfig(cfg); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// splitConfigKey parses "section.key" or "section.subsection.key"; git
// subsections may themselves contain dots, so the middle part is greedy.
func splitConfigKey(key string) (section, subsection, option string, err error) {
	parts := strings.Split(strings.TrimSpace(key), ".")
	switch {
	case len(parts) == 2:
		return parts[0], "", parts[1], nil
	case len(parts) > 2:
		return parts[0], strings.Join(parts[1:len(parts)-1], "."), parts[len(parts)-1], nil
	default:
		return "", "", "", fmt.Errorf("config key %q must be section.name", key)
	}
}
