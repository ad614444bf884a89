// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package components

import (
	"strings"

	"github.com/jeranaias/parley-tui/internal/ui/styles"
)

// =============================================================================
// MODEL PICKER
// =============================================================================

// ModelPicker is the overlay for choosing which model handles the next
// send. The list comes from the server, falling back to the client's
// built-in defaults when unreachable.
type ModelPicker struct {
	models   []string
	cursor   int
	selected string
	theme    *styles.Theme
}

// NewModelPicker creates a picker over the given model ids.
func NewModelPicker(models []string, selected string, theme *styles.Theme) *ModelPicker {
	p := &ModelPicker{
		models:   models,
		selected: selected,
		theme:    theme,
	}
	for i, id := range models {
		if id == selected {
			p.cursor = i
		}
	}
	return p
}

// SetModels replaces the model list.
func (p *ModelPicker) SetModels(models []string) {
	p.models = models
	if p.cursor >= len(models) {
		p.cursor = 0
	}
}

// CursorUp moves the selection cursor up.
func (p *ModelPicker) CursorUp() {
	if p.cursor > 0 {
		p.cursor--
	}
}

// CursorDown moves the selection cursor down.
func (p *ModelPicker) CursorDown() {
	if p.cursor < len(p.models)-1 {
		p.cursor++
	}
}

// Selected returns the model id under the cursor, "" when empty.
func (p *ModelPicker) Selected() string {
	if len(p.models) == 0 {
		return ""
	}
	return p.models[p.cursor]
}

// View renders the picker overlay.
func (p *ModelPicker) View() string {
	var b strings.Builder
	b.WriteString(p.theme.PickerTitle.Render("Select model"))
	b.WriteString("\n\n")

	if len(p.models) == 0 {
		b.WriteString(p.theme.SidebarEmpty.Render("No models available"))
	}
	for i, id := range p.models {
		marker := "  "
		if id == p.selected {
			marker = "* "
		}
		line := marker + id
		if i == p.cursor {
			b.WriteString(p.theme.PickerItemSelected.Render(line))
		} else {
			b.WriteString(p.theme.PickerItem.Render(line))
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(p.theme.ShortcutDesc.Render("enter select  esc cancel"))

	return p.theme.PickerBox.Render(b.String())
}
