// Package instruction builds the system message sent ahead of the user's
// question.
package instruction

import (
	"context"
	"strings"
)

const persona = "You are a helpful, polite assistant for Markham Community Connect Association (MCCA).\n"

// StaticText is used when no spreadsheet is configured.
const StaticText = persona +
	"Answer questions about MCCA, its community events and programs.\n" +
	"If you do not know the answer, say so and suggest contacting MCCA directly.\n" +
	"Use a friendly, community-focused tone."

const sheetRules = "Your role is to answer questions about MCCA using the provided spreadsheet data (events, programs, dates, locations, descriptions, and links).\n" +
	"Rules:\n" +
	"- Base answers only on the spreadsheet content; do not invent information.\n" +
	"- If information is missing or unclear, say so and suggest contacting MCCA.\n" +
	"- Use a friendly, community-focused tone.\n\n" +
	"Spreadsheet preview (first rows/columns):\n"

// NoSheetData stands in for an empty preview.
const NoSheetData = "[no sheet data available]"

// Provider returns the system instruction for one request.
type Provider interface {
	SystemInstruction(ctx context.Context) string
}

type Static struct {
	text string
}

func NewStatic(text string) *Static {
	return &Static{text: text}
}

func (s *Static) SystemInstruction(context.Context) string {
	return s.text
}

// PreviewBuilder yields a spreadsheet preview, or "" when there is none.
type PreviewBuilder interface {
	Build(ctx context.Context) string
}

// SheetTemplate embeds a live spreadsheet preview in the instruction.
type SheetTemplate struct {
	previews PreviewBuilder
}

func NewSheetTemplate(previews PreviewBuilder) *SheetTemplate {
	return &SheetTemplate{previews: previews}
}

func (s *SheetTemplate) SystemInstruction(ctx context.Context) string {
	return Render(s.previews.Build(ctx))
}

// Render fills the sheet template with preview.
func Render(preview string) string {
	var b strings.Builder
	b.WriteString(persona)
	b.WriteString(sheetRules)
	if preview == "" {
		b.WriteString(NoSheetData)
	} else {
		b.WriteString(preview)
	}
	return b.String()
}
