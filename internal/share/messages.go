package share

import "golang.org/x/text/language"

// Messages holds the status texts shown after a copy
type Messages struct {
	Copied     string
	CopyFailed string
}

var (
	supported = []language.Tag{
		language.English, // first entry is the fallback
		language.BrazilianPortuguese,
	}

	catalog = []Messages{
		{
			Copied:     "Link copied. Send it via messaging app.",
			CopyFailed: "Copy failed. Copy manually.",
		},
		{
			Copied:     "Link copiado. Envie no WhatsApp.",
			CopyFailed: "Falha ao copiar. Copie manualmente.",
		},
	}

	matcher = language.NewMatcher(supported)
)

// MessagesFor returns the closest catalog entry for a BCP 47 locale string.
// Unknown or malformed locales get English.
func MessagesFor(locale string) Messages {
	tag, err := language.Parse(locale)
	if err != nil {
		return catalog[0]
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return catalog[0]
	}
	return catalog[idx]
}
