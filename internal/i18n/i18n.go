package i18n

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

type ctxKey struct{}

var bundle *i18n.Bundle

// Init loads the translation bundle with lang as the default language.
func Init(lang string) error {
	tag, err := language.Parse(lang)
	if err != nil {
		return fmt.Errorf("parse language %q: %w", lang, err)
	}

	bundle = i18n.NewBundle(tag)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)

	entries, err := localeFS.ReadDir("locales")
	if err != nil {
		return fmt.Errorf("read locales dir: %w", err)
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := localeFS.ReadFile("locales/" + e.Name())
		if err != nil {
			return fmt.Errorf("read locale file %s: %w", e.Name(), err)
		}
		if _, err := bundle.ParseMessageFileBytes(data, e.Name()); err != nil {
			return fmt.Errorf("parse locale file %s: %w", e.Name(), err)
		}
		slog.Debug("loaded locale file", "file", e.Name())
	}

	return nil
}

// Translator renders UI strings in one language.
type Translator struct {
	loc *i18n.Localizer
}

// New returns a translator for lang. Init must have been called.
func New(lang string) *Translator {
	return &Translator{loc: i18n.NewLocalizer(bundle, lang, "en")}
}

func (tr *Translator) localize(cfg *i18n.LocalizeConfig) string {
	s, err := tr.loc.Localize(cfg)
	if err != nil {
		slog.Warn("missing translation", "id", cfg.MessageID, "error", err)
		return cfg.MessageID
	}
	return s
}

// T translates a message by ID.
func (tr *Translator) T(msgID string) string {
	return tr.localize(&i18n.LocalizeConfig{MessageID: msgID})
}

// Td translates a message by ID with template data.
func (tr *Translator) Td(msgID string, data map[string]any) string {
	return tr.localize(&i18n.LocalizeConfig{MessageID: msgID, TemplateData: data})
}

// Tp translates a pluralized message by ID.
func (tr *Translator) Tp(msgID string, count int) string {
	return tr.localize(&i18n.LocalizeConfig{
		MessageID:    msgID,
		PluralCount:  count,
		TemplateData: map[string]any{"Count": count},
	})
}

// WithTranslator stores a translator in the context.
func WithTranslator(ctx context.Context, tr *Translator) context.Context {
	return context.WithValue(ctx, ctxKey{}, tr)
}

// FromContext returns the translator stored in ctx, falling back to English.
func FromContext(ctx context.Context) *Translator {
	if tr, ok := ctx.Value(ctxKey{}).(*Translator); ok {
		return tr
	}
	return New("en")
}
