// Package translate localizes the user-visible messages of the interpreter.
package translate

import (
	"log"
	"sync/atomic"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer atomic.Pointer[message.Printer]

// supported lists the message languages, the first being the fallback.
var supported = []language.Tag{
	language.AmericanEnglish,
	language.French,
}

var matcher = language.NewMatcher(supported)

func init() {
	err := loadCatalog()
	if err != nil {
		log.Printf("chip8: catalog: %v", err)
	}

	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("chip8: locale: %v", err)
	}

	var tags []language.Tag
	for _, name := range locales {
		tag, err := language.Parse(name)
		if err == nil {
			tags = append(tags, tag)
		}
	}

	use(tags...)
}

// use selects the supported language closest to the preferred ones.
func use(preferred ...language.Tag) {
	_, index, _ := matcher.Match(preferred...)
	printer.Store(message.NewPrinter(supported[index]))
}

// SetLanguage overrides the locale detected from the environment.
// Languages with no translations fall back to en-US.
func SetLanguage(tag string) (err error) {
	lang, err := language.Parse(tag)
	if err != nil {
		return
	}

	use(lang)
	return
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Load().Sprintf(key, args...)
}

// errorKey is an en-US error message, translated when read.
type errorKey string

func (ek errorKey) Error() string {
	return From(string(ek))
}

// Error returns an error whose en-US message is translated each time it is
// read, so that it follows SetLanguage.
func Error(key string) error {
	return errorKey(key)
}
