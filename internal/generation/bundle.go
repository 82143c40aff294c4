package generation

import "strings"

// BusinessInfo holds the attributes the model extracts from the interview.
type BusinessInfo struct {
	Name        string   `json:"name"`
	Tagline     string   `json:"tagline,omitempty"`
	Description string   `json:"description,omitempty"`
	Services    []string `json:"services,omitempty"`
	Phone       string   `json:"phone,omitempty"`
	Email       string   `json:"email,omitempty"`
	Location    string   `json:"location,omitempty"`
}

// WebsiteSet is the three complete static documents, one per design variant.
type WebsiteSet struct {
	Modern  string `json:"modern"`
	Classic string `json:"classic"`
	Warm    string `json:"warm"`
}

// Bundle is the structured generation result. It is produced and consumed
// atomically; a bundle with any empty document is never returned.
type Bundle struct {
	BusinessInfo BusinessInfo `json:"businessInfo"`
	Websites     WebsiteSet   `json:"websites"`
}

func (b *Bundle) complete() bool {
	return strings.TrimSpace(b.Websites.Modern) != "" &&
		strings.TrimSpace(b.Websites.Classic) != "" &&
		strings.TrimSpace(b.Websites.Warm) != ""
}
