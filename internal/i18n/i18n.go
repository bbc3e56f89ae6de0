package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/text/language"
)

const (
	LangEN = "en"
	LangRU = "ru"
	LangDE = "de"
)

//go:embed locales/*.json
var localeFiles embed.FS

var weekdayKeys = [...]string{
	time.Sunday:    "weekday.short.sun",
	time.Monday:    "weekday.short.mon",
	time.Tuesday:   "weekday.short.tue",
	time.Wednesday: "weekday.short.wed",
	time.Thursday:  "weekday.short.thu",
	time.Friday:    "weekday.short.fri",
	time.Saturday:  "weekday.short.sat",
}

type Manager struct {
	defaultLanguage string
	locales         map[string]map[string]string
	supported       []string
	matcher         language.Matcher
	matcherOrder    []string
}

// NewManager loads the embedded locales. defaultLanguage falls back to
// English when it is not one of them.
func NewManager(defaultLanguage string) (*Manager, error) {
	return newManagerFromFS(defaultLanguage, localeFiles, "locales")
}

func newManagerFromFS(defaultLanguage string, files fs.FS, dir string) (*Manager, error) {
	manager := &Manager{
		locales: map[string]map[string]string{},
	}

	entries, err := fs.ReadDir(files, dir)
	if err != nil {
		return nil, fmt.Errorf("read locales dir: %w", err)
	}

	for _, entry := range entries {
		if entry.IsDir() || path.Ext(entry.Name()) != ".json" {
			continue
		}

		lang := strings.TrimSuffix(strings.ToLower(entry.Name()), path.Ext(entry.Name()))
		content, err := fs.ReadFile(files, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read locale %s: %w", lang, err)
		}

		messages := map[string]string{}
		if err := json.Unmarshal(content, &messages); err != nil {
			return nil, fmt.Errorf("parse locale %s: %w", lang, err)
		}
		if len(messages) == 0 {
			return nil, fmt.Errorf("locale %s is empty", lang)
		}

		manager.locales[lang] = messages
		manager.supported = append(manager.supported, lang)
	}

	if _, ok := manager.locales[LangEN]; !ok {
		return nil, fmt.Errorf("required locale %q missing", LangEN)
	}

	sort.Strings(manager.supported)
	manager.defaultLanguage = LangEN
	manager.defaultLanguage = manager.NormalizeLanguage(defaultLanguage)
	manager.buildMatcher()
	return manager, nil
}

// buildMatcher puts the default language first so that the matcher falls
// back to it.
func (manager *Manager) buildMatcher() {
	order := []string{manager.defaultLanguage}
	for _, lang := range manager.supported {
		if lang != manager.defaultLanguage {
			order = append(order, lang)
		}
	}

	tags := make([]language.Tag, 0, len(order))
	for _, lang := range order {
		tags = append(tags, language.Make(lang))
	}
	manager.matcher = language.NewMatcher(tags)
	manager.matcherOrder = order
}

func (manager *Manager) DefaultLanguage() string {
	return manager.defaultLanguage
}

func (manager *Manager) SupportedLanguages() []string {
	result := make([]string, len(manager.supported))
	copy(result, manager.supported)
	return result
}

func (manager *Manager) NormalizeLanguage(raw string) string {
	normalized := normalizeLanguageTag(raw)
	if normalized == "" {
		return manager.defaultLanguage
	}
	if manager.isSupported(normalized) {
		return normalized
	}
	return manager.defaultLanguage
}

// DetectFromAcceptLanguage picks the best supported locale for an
// Accept-Language header, honouring quality weights.
func (manager *Manager) DetectFromAcceptLanguage(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return manager.defaultLanguage
	}
	tags, _, err := language.ParseAcceptLanguage(raw)
	if err != nil || len(tags) == 0 {
		return manager.defaultLanguage
	}

	_, index, confidence := manager.matcher.Match(tags...)
	if confidence == language.No || index < 0 || index >= len(manager.matcherOrder) {
		return manager.defaultLanguage
	}
	return manager.matcherOrder[index]
}

// Resolve prefers an explicit language over the Accept-Language header.
func (manager *Manager) Resolve(explicit string, acceptLanguage string) string {
	if normalized := normalizeLanguageTag(explicit); manager.isSupported(normalized) {
		return normalized
	}
	return manager.DetectFromAcceptLanguage(acceptLanguage)
}

func (manager *Manager) Translate(lang string, key string) string {
	target := manager.locales[manager.NormalizeLanguage(lang)]
	if value, ok := target[key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	if value, ok := manager.locales[manager.defaultLanguage][key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return key
}

func (manager *Manager) Translatef(lang string, key string, args ...any) string {
	return fmt.Sprintf(manager.Translate(lang, key), args...)
}

func (manager *Manager) WeekdayShort(lang string, weekday time.Weekday) string {
	if weekday < time.Sunday || weekday > time.Saturday {
		return ""
	}
	return manager.Translate(lang, weekdayKeys[weekday])
}

// WeekdayLabeler binds WeekdayShort to one language.
func (manager *Manager) WeekdayLabeler(lang string) func(time.Weekday) string {
	resolved := manager.NormalizeLanguage(lang)
	return func(weekday time.Weekday) string {
		return manager.WeekdayShort(resolved, weekday)
	}
}

func (manager *Manager) isSupported(lang string) bool {
	if lang == "" {
		return false
	}
	_, ok := manager.locales[lang]
	return ok
}

func normalizeLanguageTag(raw string) string {
	lang := strings.ToLower(strings.TrimSpace(raw))
	if lang == "" {
		return ""
	}
	lang = strings.ReplaceAll(lang, "_", "-")
	if separator := strings.Index(lang, "-"); separator >= 0 {
		lang = lang[:separator]
	}
	return lang
}
