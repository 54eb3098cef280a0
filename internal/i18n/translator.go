// Package i18n turns result messages into user-facing text.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"marketplaceOrders/internal/result"
)

var messages = map[language.Tag]map[string]string{
	language.English: {
		"web.record_successfully_updated":      "Record has been successfully updated",
		"errors.NO_ERROR":                      "Success",
		"errors.ERROR_404":                     "Item not found",
		"errors.ERROR_253":                     "Status is not valid",
		"errors.ERROR_400":                     "Bad request",
		"errors.ERROR_434":                     "Payment type is not valid",
		"errors.ERROR_108":                     "User has no wallet",
		"errors.ERROR_422":                     "Some orders could not be processed",
		"errors.ERROR_501":                     "Internal error, please try again later",
		"errors.status_transition_not_allowed": "Cannot change status from {from} to {to}",
	},
	language.Russian: {
		"web.record_successfully_updated":      "Запись успешно обновлена",
		"errors.NO_ERROR":                      "Успешно",
		"errors.ERROR_404":                     "Запись не найдена",
		"errors.ERROR_253":                     "Недопустимый статус",
		"errors.ERROR_400":                     "Некорректный запрос",
		"errors.ERROR_434":                     "Недопустимый способ оплаты",
		"errors.ERROR_108":                     "У пользователя нет кошелька",
		"errors.ERROR_422":                     "Некоторые заказы не обработаны",
		"errors.ERROR_501":                     "Внутренняя ошибка, попробуйте позже",
		"errors.status_transition_not_allowed": "Нельзя сменить статус с {from} на {to}",
	},
}

// Translator renders message keys in the caller's locale.
type Translator struct {
	catalog  catalog.Catalog
	matcher  language.Matcher
	tags     []language.Tag // fallback first
	fallback language.Tag
}

// New builds a Translator whose fallback is defaultLocale, or English when it is not supported.
func New(defaultLocale string) (*Translator, error) {
	return newTranslator(defaultLocale, messages)
}

func newTranslator(defaultLocale string, msgs map[language.Tag]map[string]string) (*Translator, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	supported := []language.Tag{language.English, language.Russian}
	for _, tag := range supported {
		for key := range msgs[language.English] {
			if _, ok := msgs[tag][key]; !ok {
				return nil, fmt.Errorf("i18n: %s has no text for %q", tag, key)
			}
		}
		for key, text := range msgs[tag] {
			// Params are substituted after lookup, so the text must not be read as a format string.
			if err := b.SetString(tag, key, strings.ReplaceAll(text, "%", "%%")); err != nil {
				return nil, fmt.Errorf("i18n: set %s %q: %w", tag, key, err)
			}
		}
	}
	t := &Translator{catalog: b, fallback: language.English}
	if tag, err := language.Parse(defaultLocale); err == nil {
		if _, idx, conf := language.NewMatcher(supported).Match(tag); conf != language.No {
			t.fallback = supported[idx]
		}
	}
	t.tags = []language.Tag{t.fallback}
	for _, tag := range supported {
		if tag != t.fallback {
			t.tags = append(t.tags, tag)
		}
	}
	t.matcher = language.NewMatcher(t.tags)
	return t, nil
}

func (t *Translator) tag(locale string) language.Tag {
	if locale == "" {
		return t.fallback
	}
	want, _, err := language.ParseAcceptLanguage(locale)
	if err != nil || len(want) == 0 {
		return t.fallback
	}
	_, idx, conf := t.matcher.Match(want...)
	if conf == language.No {
		return t.fallback
	}
	return t.tags[idx]
}

// Translate renders msg in locale. Unknown keys come back unchanged.
func (t *Translator) Translate(msg result.Message, locale string) string {
	p := message.NewPrinter(t.tag(locale), message.Catalog(t.catalog))
	text := p.Sprintf(msg.Key)
	if len(msg.Params) == 0 {
		return text
	}
	pairs := make([]string, 0, len(msg.Params)*2)
	for k, v := range msg.Params {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}
