// Copyright 2025, the Launchpod contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"

	goi18n "github.com/nicksnyder/go-i18n/v2/i18n"
	"github.com/rs/zerolog/log"
)

// Tr translates msgid into the language carried by ctx.
//
// kv holds alternating template keys and values. Untranslated messages are
// returned as msgid with the values substituted.
func Tr(ctx context.Context, msgid string, kv ...any) string {
	data := templateData(kv)

	if c := loaded.Load(); c != nil {
		localizer := goi18n.NewLocalizer(c.bundle, TagFrom(ctx).String())

		out, err := localizer.Localize(&goi18n.LocalizeConfig{
			DefaultMessage: &goi18n.Message{ID: msgid, Other: msgid},
			TemplateData:   data,
		})
		if err != nil {
			log.Debug().Str("sys", "i18n").Str("msgid", msgid).Err(err).Msg("Missing translation")
		}

		// a missing translation still renders the default message
		if out != "" {
			return out
		}
	}

	return msgid
}

func templateData(kv []any) map[string]any {
	if len(kv) == 0 {
		return nil
	}

	data := make(map[string]any, len(kv)/2)

	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			data[key] = kv[i+1]
		}
	}

	return data
}
