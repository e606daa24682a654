// Package intent turns a free-text chat message into the fixed set of flags
// the response assembler branches on.
package intent

import (
	"strings"

	"github.com/migcruzz/Ipma-Expert/internal/models"
)

// Flags is the resolved intent of one chat message. Built once per message
// and consumed read-only downstream.
type Flags struct {
	// Location is the directory entry the message refers to, nil when no
	// candidate cleared the lookup.
	Location *models.Location

	// AttemptedName is the place name the user appears to have asked about
	// when the lookup failed, used to echo it back in the not-found reply.
	AttemptedName string

	WantsChart    bool
	WantsForecast bool
	WantsMap      bool
	AllLocations  bool
}

// Keyword sets per flag. All matching is case-insensitive containment over
// the raw text; the extractions are independent of one another.
var (
	chartKeywords    = []string{"gráfico", "grafico"}
	forecastKeywords = []string{"tempo", "previsão"}
	mapKeywords      = []string{"mapa"}
	allKeywords      = []string{"todas as cidades", "todas localidades", "all cities"}
)

// Extract computes the intent flags for text against the location directory.
func Extract(text string, directory []models.Location) Flags {
	lower := strings.ToLower(text)

	flags := Flags{
		WantsChart:    containsAny(lower, chartKeywords),
		WantsForecast: containsAny(lower, forecastKeywords),
		WantsMap:      containsAny(lower, mapKeywords),
		AllLocations:  containsAny(lower, allKeywords),
	}

	if loc, ok := LookupLocation(text, directory); ok {
		flags.Location = &loc
	} else {
		flags.AttemptedName = guessPlaceName(text)
	}
	return flags
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// placePrepositions precede place names in the queries this service sees
// ("previsão para Faro", "o tempo em Braga").
var placePrepositions = map[string]bool{
	"em": true, "no": true, "na": true, "nos": true, "nas": true,
	"de": true, "do": true, "da": true, "para": true,
}

// guessPlaceName extracts the words following the last place preposition,
// so an unmatched city can be echoed back to the user. Best effort only.
func guessPlaceName(text string) string {
	words := strings.Fields(text)
	last := -1
	for i, w := range words {
		if placePrepositions[strings.ToLower(w)] {
			last = i
		}
	}
	if last < 0 || last+1 >= len(words) {
		return ""
	}
	name := strings.Join(words[last+1:], " ")
	return strings.TrimRight(name, "?!.,;:")
}
