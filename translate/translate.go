// Package translate renders user-visible messages in the caller's locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("alpha: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

// Plural selects between a singular and plural en-US format by count,
// then translates it.
func Plural(count int, one, many string, args ...any) string {
	if count == 1 {
		return printer.Sprintf(one, args...)
	}
	return printer.Sprintf(many, args...)
}
