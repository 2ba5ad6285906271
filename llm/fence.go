package llm

import (
	"regexp"
	"strings"
)

var codeFence = regexp.MustCompile("(?s)^```(?:json)?\\s*(.*)```")

// StripCodeFence removes a surrounding ```json ... ``` fence that models add
// despite being told not to. Unfenced text is only trimmed.
func StripCodeFence(text string) string {
	cleaned := strings.TrimSpace(text)
	if m := codeFence.FindStringSubmatch(cleaned); m != nil {
		return strings.TrimSpace(m[1])
	}
	return cleaned
}
