package translate

import (
	"errors"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// catalog holds the translations of the en-US message formats.
var catalog = map[language.Tag]map[string]string{
	language.French: {
		"program too large":              "programme trop volumineux",
		"program source unavailable":     "source du programme indisponible",
		"invalid opcode":                 "code d'opération invalide",
		"stack overflow":                 "débordement de pile",
		"stack underflow":                "pile vide",
		"bad opcode 0x%04X":              "code d'opération 0x%04X incorrect",
		"pc 0x%03X %v":                   "pc 0x%03X %v",
		"quit requested":                 "arrêt demandé",
		"keymap must name 16 keys":       "la disposition doit nommer 16 touches",
		"keymap repeats a key":           "la disposition répète une touche",
		"invalid sample rate":            "fréquence d'échantillonnage invalide",
		"speed must be at least 1":       "la vitesse doit être d'au moins 1",
		"hold_frames must be at least 1": "hold_frames doit être d'au moins 1",
		"config %v: wrong type":          "config %v : type incorrect",
		"config %v: unknown setting":     "config %v : paramètre inconnu",
	},
}

// loadCatalog registers the translations with the default message catalog.
func loadCatalog() (err error) {
	var errs []error
	for tag, messages := range catalog {
		for key, text := range messages {
			errs = append(errs, message.SetString(tag, key, text))
		}
	}

	return errors.Join(errs...)
}
