package main

import (
	"strconv"

	"github.com/akeren/wallet-waitlist/pkg/utils"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// formatCount prints a bare integer for scripts, or a locale-grouped one
// ("12,345" for en, "12.345" for de) when pretty is set.
func formatCount(n int64, pretty bool) string {
	if !pretty {
		return strconv.FormatInt(n, 10)
	}

	tag, err := language.Parse(utils.GetEnvTrimmedOrDefault("CLI_LOCALE", "en"))
	if err != nil {
		tag = language.English
	}

	return message.NewPrinter(tag).Sprintf("%d", n)
}

func hasFlag(args []string, flag string) bool {
	for _, arg := range args {
		if arg == flag {
			return true
		}
	}
	return false
}
