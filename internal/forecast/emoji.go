package forecast

// emojiByDesc maps IPMA weather-type descriptions to a display glyph. The
// descriptions are upstream-owned strings, so this is an approximation layer:
// a description without an entry renders without an emoji rather than failing.
var emojiByDesc = map[string]string{
	"Céu limpo":                              "☀️",
	"Céu pouco nublado":                      "⛅",
	"Céu parcialmente nublado":               "⛅",
	"Céu muito nublado ou encoberto":         "☁️",
	"Céu nublado por nuvens altas":           "☁️",
	"Céu com períodos de muito nublado":      "☁️",
	"Céu nublado":                            "☁️",
	"Aguaceiros/chuva":                       "🌧️",
	"Aguaceiros/chuva fracos":                "🌦️",
	"Aguaceiros/chuva fortes":                "⛈️",
	"Chuva/aguaceiros":                       "🌧️",
	"Chuva fraca ou chuvisco":                "🌦️",
	"Chuva/aguaceiros forte":                 "⛈️",
	"Períodos de chuva":                      "🌧️",
	"Períodos de chuva fraca":                "🌦️",
	"Períodos de chuva forte":                "⛈️",
	"Chuvisco":                               "🌦️",
	"Neblina":                                "🌫️",
	"Nevoeiro ou nuvens baixas":              "🌫️",
	"Nevoeiro":                               "🌫️",
	"Neve":                                   "❄️",
	"Aguaceiros de neve":                     "🌨️",
	"Chuva e Neve":                           "🌨️",
	"Trovoada":                               "⛈️",
	"Aguaceiros e possibilidade de trovoada": "⛈️",
	"Chuva e possibilidade de trovoada":      "⛈️",
	"Granizo":                                "🌨️",
	"Geada":                                  "🧊",
	"Nebulosidade convectiva":                "☁️",
}

// EmojiFor returns the glyph for a weather description, or "" when unmapped.
func EmojiFor(desc string) string {
	return emojiByDesc[desc]
}
