package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"

	"github.com/sahiltiwari-png/guccc-hrms/internal/platform/requestctx"
)

//go:embed locales/*.json
var localeFS embed.FS

// Translator resolves message ids against the embedded locale files.
type Translator struct {
	bundle        *i18n.Bundle
	matcher       language.Matcher
	defaultLocale string
}

func New(defaultLocale string) (*Translator, error) {
	if defaultLocale == "" {
		defaultLocale = "en"
	}
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", e.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return nil, fmt.Errorf("i18n: parse %s: %w", e.Name(), err)
		}
	}

	return &Translator{
		bundle:        bundle,
		matcher:       language.NewMatcher(bundle.LanguageTags()),
		defaultLocale: defaultLocale,
	}, nil
}

// Match picks the best supported locale for an Accept-Language header value.
func (t *Translator) Match(acceptLanguage string) string {
	if acceptLanguage == "" {
		return t.defaultLocale
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return t.defaultLocale
	}
	_, index, confidence := t.matcher.Match(tags...)
	if confidence == language.No {
		return t.defaultLocale
	}
	base, _ := t.bundle.LanguageTags()[index].Base()
	return base.String()
}

// T translates messageID for the locale stored in ctx.
func (t *Translator) T(ctx context.Context, messageID string, templateData ...map[string]any) string {
	var data map[string]any
	if len(templateData) > 0 {
		data = templateData[0]
	}
	return t.In(requestctx.GetLocale(ctx), messageID, data)
}

// In translates messageID for locale. A message missing from locale comes back
// in the default language; ids unknown everywhere come back unchanged.
func (t *Translator) In(locale, messageID string, templateData map[string]any) string {
	if locale == "" {
		locale = t.defaultLocale
	}
	l := i18n.NewLocalizer(t.bundle, locale, t.defaultLocale)

	cfg := &i18n.LocalizeConfig{MessageID: messageID}
	if templateData != nil {
		cfg.TemplateData = templateData
	}
	msg, err := l.Localize(cfg)
	if msg == "" {
		if err != nil {
			slog.Debug("i18n message missing", "locale", locale, "messageId", messageID, "err", err)
		}
		return messageID
	}
	return msg
}
