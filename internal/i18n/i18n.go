// Package i18n provides per-language message catalogs with identity
// fallback: looking up a key in a language without a catalog, or a key
// missing from a catalog, returns the key unchanged.
package i18n

// Translator resolves a message key to localized text.
type Translator interface {
	Translate(key string) string
}

type identity struct{}

func (identity) Translate(key string) string { return key }

// Identity returns a Translator that maps every key to itself.
func Identity() Translator { return identity{} }

// Catalog is a flat key -> text mapping for a single language.
type Catalog struct {
	messages map[string]string
}

func NewCatalog(messages map[string]string) *Catalog {
	return &Catalog{messages: messages}
}

func (c *Catalog) Translate(key string) string {
	if c == nil {
		return key
	}
	if text, ok := c.messages[key]; ok {
		return text
	}
	return key
}

// Registry holds catalogs keyed by language tag.
type Registry struct {
	catalogs map[string]*Catalog
}

// NewRegistry builds a registry from language -> (key -> text) mappings.
// A nil or empty argument yields a registry where every lookup falls back
// to identity.
func NewRegistry(messages map[string]map[string]string) *Registry {
	catalogs := make(map[string]*Catalog, len(messages))
	for lang, msgs := range messages {
		catalogs[lang] = NewCatalog(msgs)
	}
	return &Registry{catalogs: catalogs}
}

// Get returns the translator for the given language, or the identity
// translator when no catalog exists for it. Safe on a nil registry.
func (r *Registry) Get(language string) Translator {
	if r == nil {
		return identity{}
	}
	if c, ok := r.catalogs[language]; ok {
		return c
	}
	return identity{}
}
