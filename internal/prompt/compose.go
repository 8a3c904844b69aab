// Package prompt assembles the system instruction text handed to a provider.
package prompt

import (
	"fmt"
	"strings"
)

// ContextPlaceholder is the token an operator persona may carry to control
// where the filtered data context lands.
const ContextPlaceholder = "{{CONTEXT}}"

// defaultSentinel marks the built-in persona shipped with new bots. A stored
// persona containing it is not treated as operator-authored.
const defaultSentinel = "You are a professional AI assistant"

// minPersonaLen separates real operator personas from placeholder scraps.
const minPersonaLen = 20

// Compose merges the operator persona (or the default analyst persona) with
// the filtered data context into one system instruction. Pure and
// idempotent: identical inputs always produce identical output.
func Compose(botName, persona, contextBlock string) string {
	persona = strings.TrimSpace(persona)
	custom := len(persona) > minPersonaLen && !strings.Contains(persona, defaultSentinel)

	if custom {
		out := persona
		if contextBlock != "" {
			if strings.Contains(out, ContextPlaceholder) {
				out = strings.Replace(out, ContextPlaceholder, contextBlock, 1)
			} else {
				out += fmt.Sprintf("\n\n%s\n(Treat the data above as your primary reference material.)", contextBlock)
			}
		}
		return out
	}

	dataSection := ""
	if contextBlock != "" {
		dataSection = fmt.Sprintf("FILTERED SOURCE DATA (relevant to the question):\n%s\n\n", contextBlock)
	}

	return fmt.Sprintf(`You are %s, a project data analyst and document controller.

%s**YOUR ROLE:**
1. **Document Controller:** track the revision history of every file.
2. **Detail Oriented:** account for every row of the data provided.

**PRIMARY INSTRUCTIONS:**
1. **NEVER HIDE ROWS:** if the filtered data contains several rows with the same file name (add/edit history), show ALL of them as a history.
2. **Exact match:** when the user asks for a specific file name (for example one carrying a date), they want that file's history. Do not substitute another file.
3. **Format:** render version/activity history as a table (who, when, activity).

**LANGUAGE:** answer in the user's input language (English/Indonesian).`, botName, dataSection)
}
