package models

// Language is a UI language supported by both the device and the client.
type Language string

const (
	LangCA Language = "ca"
	LangES Language = "es"
)

// DefaultLanguage is used until a stored or device preference is known.
const DefaultLanguage = LangCA

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	return l == LangCA || l == LangES
}
