package portfolio

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	PlaceholderInitials = "JD"
	PlaceholderName     = "Your Name"
	PlaceholderBio      = "Your bio will appear here..."
)

// Preview is the read-only view of a profile rendered in preview mode.
type Preview struct {
	Initials    string       `json:"initials"`
	DisplayName string       `json:"display_name"`
	Bio         string       `json:"bio"`
	Email       string       `json:"email,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	SocialLinks []SocialLink `json:"social_links"`
	Skills      []string     `json:"skills"`
	Projects    []Project    `json:"projects"`
}

func NewPreview(p Profile) Preview {
	p = p.Clone()
	pv := Preview{
		Initials:    Initials(p.FullName),
		DisplayName: orDefault(p.FullName, PlaceholderName),
		Bio:         orDefault(p.Bio, PlaceholderBio),
		Email:       p.Email,
		Phone:       p.Phone,
		SocialLinks: []SocialLink{},
		Skills:      p.Skills,
		Projects:    p.Projects,
	}
	for _, l := range p.SocialLinks {
		if l.URL != "" {
			pv.SocialLinks = append(pv.SocialLinks, l)
		}
	}
	return pv
}

func (p Preview) HasContact() bool {
	return p.Email != "" || p.Phone != "" || len(p.SocialLinks) > 0
}

// Initials takes the first letter of every whitespace separated word of name.
func Initials(name string) string {
	words := strings.Fields(name)
	if len(words) == 0 {
		return PlaceholderInitials
	}
	var sb strings.Builder
	for _, w := range words {
		r, _ := utf8.DecodeRuneInString(w)
		sb.WriteRune(unicode.ToUpper(r))
	}
	return sb.String()
}

// orDefault treats a blank value as missing, matching Initials.
func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}
