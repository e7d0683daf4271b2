package portfolio

import "slices"

const (
	PlatformGitHub    = "GitHub"
	PlatformLinkedIn  = "LinkedIn"
	PlatformPortfolio = "Portfolio"
)

// Platforms is the fixed, ordered set of social platforms a profile links to.
var Platforms = []string{PlatformGitHub, PlatformLinkedIn, PlatformPortfolio}

type ProfileField string

const (
	FieldFullName ProfileField = "full_name"
	FieldBio      ProfileField = "bio"
	FieldEmail    ProfileField = "email"
	FieldPhone    ProfileField = "phone"
)

var ProfileFields = []ProfileField{FieldFullName, FieldBio, FieldEmail, FieldPhone}

type DraftField string

const (
	DraftName        DraftField = "name"
	DraftDescription DraftField = "description"
	DraftLink        DraftField = "link"
)

var DraftFields = []DraftField{DraftName, DraftDescription, DraftLink}

type SocialLink struct {
	Platform string `json:"platform"`
	URL      string `json:"url"`
}

type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Link        string   `json:"link"`
	Tech        []string `json:"tech"`
}

func (p Project) clone() Project {
	p.Tech = slices.Clone(p.Tech)
	if p.Tech == nil {
		p.Tech = []string{}
	}
	return p
}

type Profile struct {
	FullName    string       `json:"full_name"`
	Bio         string       `json:"bio"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Skills      []string     `json:"skills"`
	Projects    []Project    `json:"projects"`
	SocialLinks []SocialLink `json:"social_links"`
}

func NewProfile() Profile {
	return Profile{
		Skills:      []string{},
		Projects:    []Project{},
		SocialLinks: DefaultSocialLinks(),
	}
}

func DefaultSocialLinks() []SocialLink {
	links := make([]SocialLink, len(Platforms))
	for i, p := range Platforms {
		links[i] = SocialLink{Platform: p}
	}
	return links
}

func (p Profile) Clone() Profile {
	out := p
	out.Skills = append([]string{}, p.Skills...)
	out.SocialLinks = append([]SocialLink{}, p.SocialLinks...)
	out.Projects = make([]Project, len(p.Projects))
	for i, pr := range p.Projects {
		out.Projects[i] = pr.clone()
	}
	return out
}

func (p Profile) FindProject(id string) (Project, bool) {
	i := p.projectIndex(id)
	if i < 0 {
		return Project{}, false
	}
	return p.Projects[i].clone(), true
}

func (p Profile) projectIndex(id string) int {
	return slices.IndexFunc(p.Projects, func(pr Project) bool { return pr.ID == id })
}

// DraftProject is an uncommitted project. EditingTargetID is empty when the
// draft will be appended as a new project.
type DraftProject struct {
	Name            string   `json:"name"`
	Description     string   `json:"description"`
	Link            string   `json:"link"`
	Tech            []string `json:"tech"`
	EditingTargetID string   `json:"editing_target_id,omitempty"`
}

func NewDraftProject() DraftProject {
	return DraftProject{Tech: []string{}}
}

func (d DraftProject) Editing() bool {
	return d.EditingTargetID != ""
}

func (d DraftProject) Clone() DraftProject {
	d.Tech = append([]string{}, d.Tech...)
	return d
}

type PendingInput struct {
	Skill string `json:"skill"`
	Tech  string `json:"tech"`
}
