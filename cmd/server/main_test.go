package main

import (
	"testing"

	"github.com/quotedesk/backend/internal/domain/sequence"
	"github.com/quotedesk/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
)

func TestSequencePolicy(t *testing.T) {
	t.Run("overlays configured formats", func(t *testing.T) {
		policy := sequencePolicy(config.SequenceConfig{
			Separator: "/",
			Quote:     config.FolioFormatConfig{Prefix: "COT", Width: 4},
		})

		assert.Equal(t, "COT/0012", policy.FormatFor(sequence.DocumentTypeQuote).Render("COT", 12))
		assert.Equal(t, "NV/000012", policy.FormatFor(sequence.DocumentTypeSalesNote).Render("NV", 12))
	})

	t.Run("empty separator renders prefix and number adjacent", func(t *testing.T) {
		policy := sequencePolicy(config.SequenceConfig{Separator: ""})

		assert.Equal(t, "NV000123", policy.FormatFor(sequence.DocumentTypeSalesNote).Render("NV", 123))
	})
}
