package catalog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// MaxNameLength is the longest global tool name, in characters.
const MaxNameLength = 64

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// SafeName returns the normalized global name of tool on backend.
func SafeName(backend, tool string) string {
	s := nonWord.ReplaceAllString(backend+"__"+tool, "_")
	s = strings.Trim(s, "_")
	s = cases.Lower(language.Und).String(s)
	s = truncate(s, MaxNameLength)
	if s == "" {
		return truncate(backend+"_tool", MaxNameLength)
	}
	return s
}

// Describe composes the published description of a tool.
func Describe(backend, hint, tool, description string) string {
	prefix := strings.TrimSpace(fmt.Sprintf("[server=%s] %s", backend, hint))
	return strings.TrimSpace(fmt.Sprintf("%s Original tool: %s. %s", prefix, tool, description))
}

// namer hands out unique names within one discovery cycle.
type namer struct {
	used map[string]bool
}

func newNamer() *namer {
	return &namer{used: make(map[string]bool)}
}

func (n *namer) assign(backend, tool string) string {
	base := SafeName(backend, tool)
	name := base
	for suffix := 2; n.used[name]; suffix++ {
		tail := "_" + strconv.Itoa(suffix)
		name = truncate(base, MaxNameLength-len(tail)) + tail
	}
	n.used[name] = true
	return name
}

func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	runes := []rune(s)
	return string(runes[:n])
}
