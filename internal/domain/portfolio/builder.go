package portfolio

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// Builder is the editable profile store behind one portfolio form. Every
// mutation keeps the profile invariants and reports whether it changed state;
// invalid input is never an error.
type Builder struct {
	Profile Profile      `json:"profile"`
	Draft   DraftProject `json:"draft"`
	Pending PendingInput `json:"pending"`

	newID func() string
}

func NewBuilder() *Builder {
	return &Builder{
		Profile: NewProfile(),
		Draft:   NewDraftProject(),
	}
}

// WithIDGenerator replaces the project id source. Ids must be unique within
// the builder's lifetime.
func (b *Builder) WithIDGenerator(gen func() string) *Builder {
	b.newID = gen
	return b
}

func (b *Builder) Clone() *Builder {
	return &Builder{
		Profile: b.Profile.Clone(),
		Draft:   b.Draft.Clone(),
		Pending: b.Pending,
		newID:   b.newID,
	}
}

func (b *Builder) nextID() string {
	if b.newID != nil {
		return b.newID()
	}
	return uuid.NewString()
}

func (b *Builder) SetField(field ProfileField, value string) bool {
	switch field {
	case FieldFullName:
		b.Profile.FullName = value
	case FieldBio:
		b.Profile.Bio = value
	case FieldEmail:
		b.Profile.Email = value
	case FieldPhone:
		b.Profile.Phone = value
	default:
		return false
	}
	return true
}

func (b *Builder) SetSkillInput(value string) bool {
	changed := b.Pending.Skill != value
	b.Pending.Skill = value
	return changed
}

func (b *Builder) AddSkill(value string) bool {
	b.Pending.Skill = value
	skills, ok := addTag(b.Profile.Skills, value)
	if !ok {
		return false
	}
	b.Profile.Skills = skills
	b.Pending.Skill = ""
	return true
}

func (b *Builder) RemoveSkill(value string) bool {
	skills, ok := removeTag(b.Profile.Skills, value)
	if ok {
		b.Profile.Skills = skills
	}
	return ok
}

func (b *Builder) SetDraftField(field DraftField, value string) bool {
	switch field {
	case DraftName:
		b.Draft.Name = value
	case DraftDescription:
		b.Draft.Description = value
	case DraftLink:
		b.Draft.Link = value
	default:
		return false
	}
	return true
}

func (b *Builder) SetTechInput(value string) bool {
	changed := b.Pending.Tech != value
	b.Pending.Tech = value
	return changed
}

func (b *Builder) AddDraftTech(value string) bool {
	b.Pending.Tech = value
	tech, ok := addTag(b.Draft.Tech, value)
	if !ok {
		return false
	}
	b.Draft.Tech = tech
	b.Pending.Tech = ""
	return true
}

func (b *Builder) RemoveDraftTech(value string) bool {
	tech, ok := removeTag(b.Draft.Tech, value)
	if ok {
		b.Draft.Tech = tech
	}
	return ok
}

// CommitProject turns a valid draft into a project. When the draft edits a
// project that no longer exists the draft is appended under a fresh id so the
// user's input is not lost.
func (b *Builder) CommitProject() bool {
	if strings.TrimSpace(b.Draft.Name) == "" || strings.TrimSpace(b.Draft.Description) == "" {
		return false
	}

	p := Project{
		Name:        b.Draft.Name,
		Description: b.Draft.Description,
		Link:        b.Draft.Link,
		Tech:        append([]string{}, b.Draft.Tech...),
	}

	if i := b.Profile.projectIndex(b.Draft.EditingTargetID); b.Draft.Editing() && i >= 0 {
		p.ID = b.Draft.EditingTargetID
		b.Profile.Projects[i] = p
	} else {
		p.ID = b.uniqueID()
		b.Profile.Projects = append(b.Profile.Projects, p)
	}

	b.Draft = NewDraftProject()
	return true
}

const maxIDAttempts = 8

// uniqueID asks the generator a bounded number of times, then falls back to
// a random uuid.
func (b *Builder) uniqueID() string {
	for range maxIDAttempts {
		id := b.nextID()
		if id != "" && b.Profile.projectIndex(id) < 0 {
			return id
		}
	}
	for {
		id := uuid.NewString()
		if b.Profile.projectIndex(id) < 0 {
			return id
		}
	}
}

func (b *Builder) BeginEditProject(id string) bool {
	p, ok := b.Profile.FindProject(id)
	if !ok {
		return false
	}
	b.Draft = DraftProject{
		Name:            p.Name,
		Description:     p.Description,
		Link:            p.Link,
		Tech:            p.Tech,
		EditingTargetID: p.ID,
	}
	return true
}

func (b *Builder) CancelEdit() bool {
	if b.Draft.Name == "" && b.Draft.Description == "" && b.Draft.Link == "" &&
		len(b.Draft.Tech) == 0 && !b.Draft.Editing() {
		return false
	}
	b.Draft = NewDraftProject()
	return true
}

// RemoveProject leaves the draft alone even when it targets the removed
// project; see CommitProject.
func (b *Builder) RemoveProject(id string) bool {
	i := b.Profile.projectIndex(id)
	if i < 0 {
		return false
	}
	b.Profile.Projects = slices.Delete(b.Profile.Projects, i, i+1)
	return true
}

func (b *Builder) SetSocialLinkURL(platform, url string) bool {
	for i := range b.Profile.SocialLinks {
		if b.Profile.SocialLinks[i].Platform == platform {
			b.Profile.SocialLinks[i].URL = url
			return true
		}
	}
	return false
}

func (b *Builder) Reset() {
	b.Profile = NewProfile()
	b.Draft = NewDraftProject()
	b.Pending = PendingInput{}
}

func addTag(tags []string, value string) ([]string, bool) {
	v := strings.TrimSpace(value)
	if v == "" || slices.Contains(tags, v) {
		return tags, false
	}
	return append(tags, v), true
}

func removeTag(tags []string, value string) ([]string, bool) {
	i := slices.Index(tags, value)
	if i < 0 {
		return tags, false
	}
	return slices.Delete(slices.Clone(tags), i, i+1), true
}
