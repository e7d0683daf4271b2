package portfolio

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("p%d", n)
	}
}

func newTestBuilder() *Builder {
	return NewBuilder().WithIDGenerator(sequentialIDs())
}

func TestNewBuilder_EmptyState(t *testing.T) {
	b := NewBuilder()

	assert.Equal(t, "", b.Profile.FullName)
	assert.Empty(t, b.Profile.Skills)
	assert.Empty(t, b.Profile.Projects)
	assert.Equal(t, DefaultSocialLinks(), b.Profile.SocialLinks)
	assert.Equal(t, []string{"GitHub", "LinkedIn", "Portfolio"}, platformsOf(b.Profile.SocialLinks))
	assert.False(t, b.Draft.Editing())
}

func TestBuilder_SetField(t *testing.T) {
	b := newTestBuilder()

	assert.True(t, b.SetField(FieldFullName, "Ada Lovelace"))
	assert.True(t, b.SetField(FieldBio, "Analyst"))
	assert.True(t, b.SetField(FieldEmail, "ada@example.com"))
	assert.True(t, b.SetField(FieldPhone, ""))
	assert.False(t, b.SetField(ProfileField("nickname"), "x"))

	assert.Equal(t, "Ada Lovelace", b.Profile.FullName)
	assert.Equal(t, "Analyst", b.Profile.Bio)
	assert.Equal(t, "ada@example.com", b.Profile.Email)
	assert.Equal(t, "", b.Profile.Phone)
}

func TestBuilder_AddSkill(t *testing.T) {
	tests := []struct {
		name    string
		inputs  []string
		want    []string
		pending string
	}{
		{name: "single", inputs: []string{"Go"}, want: []string{"Go"}},
		{name: "trimmed", inputs: []string{"  Go  "}, want: []string{"Go"}},
		{name: "duplicate is a no-op", inputs: []string{"Go", "Go"}, want: []string{"Go"}, pending: "Go"},
		{name: "duplicate after trim", inputs: []string{"Go", " Go "}, want: []string{"Go"}, pending: " Go "},
		{name: "case sensitive", inputs: []string{"go", "Go"}, want: []string{"go", "Go"}},
		{name: "empty", inputs: []string{""}, want: []string{}},
		{name: "whitespace only", inputs: []string{"   "}, want: []string{}, pending: "   "},
		{name: "order preserved", inputs: []string{"Go", "SQL", "Rust"}, want: []string{"Go", "SQL", "Rust"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBuilder()
			for _, in := range tt.inputs {
				b.AddSkill(in)
			}
			assert.Equal(t, tt.want, b.Profile.Skills)
			assert.Equal(t, tt.pending, b.Pending.Skill)
		})
	}
}

func TestBuilder_AddSkill_ReportsApplied(t *testing.T) {
	b := newTestBuilder()

	assert.True(t, b.AddSkill("Go"))
	assert.False(t, b.AddSkill("Go"))
	assert.False(t, b.AddSkill(""))
}

func TestBuilder_RemoveSkill(t *testing.T) {
	b := newTestBuilder()
	b.AddSkill("Go")
	b.AddSkill("SQL")

	assert.False(t, b.RemoveSkill("Rust"))
	assert.Equal(t, []string{"Go", "SQL"}, b.Profile.Skills)

	assert.True(t, b.RemoveSkill("Go"))
	assert.Equal(t, []string{"SQL"}, b.Profile.Skills)

	assert.False(t, b.RemoveSkill("Go"))
	assert.Equal(t, []string{"SQL"}, b.Profile.Skills)
}

func TestBuilder_DraftTech(t *testing.T) {
	b := newTestBuilder()

	assert.True(t, b.AddDraftTech(" React "))
	assert.False(t, b.AddDraftTech("React"))
	assert.False(t, b.AddDraftTech("  "))
	assert.Equal(t, "  ", b.Pending.Tech)
	assert.True(t, b.AddDraftTech("Go"))
	assert.Equal(t, "", b.Pending.Tech)
	assert.Equal(t, []string{"React", "Go"}, b.Draft.Tech)

	assert.True(t, b.RemoveDraftTech("React"))
	assert.False(t, b.RemoveDraftTech("React"))
	assert.Equal(t, []string{"Go"}, b.Draft.Tech)
}

func TestBuilder_CommitProject_Invalid(t *testing.T) {
	tests := []struct {
		name        string
		projectName string
		description string
	}{
		{name: "empty name", projectName: "", description: "A task app"},
		{name: "empty description", projectName: "Tracker", description: ""},
		{name: "whitespace name", projectName: "   ", description: "A task app"},
		{name: "whitespace description", projectName: "Tracker", description: "\t\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBuilder()
			b.SetDraftField(DraftName, tt.projectName)
			b.SetDraftField(DraftDescription, tt.description)

			assert.False(t, b.CommitProject())
			assert.Empty(t, b.Profile.Projects)
			assert.Equal(t, tt.projectName, b.Draft.Name)
		})
	}
}

func TestBuilder_CommitProject_Appends(t *testing.T) {
	b := newTestBuilder()
	b.SetDraftField(DraftName, "Tracker")
	b.SetDraftField(DraftDescription, "A task app")
	b.SetDraftField(DraftLink, "")

	require.True(t, b.CommitProject())

	require.Len(t, b.Profile.Projects, 1)
	p := b.Profile.Projects[0]
	assert.Equal(t, "p1", p.ID)
	assert.Equal(t, "Tracker", p.Name)
	assert.Equal(t, "A task app", p.Description)
	assert.Empty(t, p.Tech)
	assert.Equal(t, NewDraftProject(), b.Draft)
}

func TestBuilder_CommitProject_FreshIDs(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < 5; i++ {
		b.SetDraftField(DraftName, fmt.Sprintf("P%d", i))
		b.SetDraftField(DraftDescription, "d")
		require.True(t, b.CommitProject())
	}

	seen := map[string]bool{}
	for _, p := range b.Profile.Projects {
		assert.NotEmpty(t, p.ID)
		assert.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
	}
}

func TestBuilder_CommitProject_SkipsCollidingIDs(t *testing.T) {
	ids := []string{"a", "a", "b"}
	b := NewBuilder().WithIDGenerator(func() string {
		id := ids[0]
		ids = ids[1:]
		return id
	})
	for _, name := range []string{"one", "two"} {
		b.SetDraftField(DraftName, name)
		b.SetDraftField(DraftDescription, "d")
		require.True(t, b.CommitProject())
	}

	assert.Equal(t, "a", b.Profile.Projects[0].ID)
	assert.Equal(t, "b", b.Profile.Projects[1].ID)
}

func TestBuilder_CommitProject_StuckGeneratorFallsBack(t *testing.T) {
	tests := []struct {
		name string
		gen  func() string
	}{
		{"always empty", func() string { return "" }},
		{"always the same", func() string { return "same" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder().WithIDGenerator(tt.gen)
			for _, name := range []string{"one", "two", "three"} {
				b.SetDraftField(DraftName, name)
				b.SetDraftField(DraftDescription, "d")
				require.True(t, b.CommitProject())
			}

			require.Len(t, b.Profile.Projects, 3)
			seen := map[string]bool{}
			for _, p := range b.Profile.Projects {
				assert.NotEmpty(t, p.ID)
				assert.False(t, seen[p.ID], "duplicate id %q", p.ID)
				seen[p.ID] = true
			}
		})
	}
}

func TestBuilder_EditProjectInPlace(t *testing.T) {
	b := newTestBuilder()
	commit(b, "Before", "first")
	commit(b, "A", "B")
	commit(b, "After", "last")
	target := b.Profile.Projects[1].ID

	require.True(t, b.BeginEditProject(target))
	assert.Equal(t, target, b.Draft.EditingTargetID)
	assert.Equal(t, "A", b.Draft.Name)
	assert.Len(t, b.Profile.Projects, 3, "project stays until commit")

	b.SetDraftField(DraftName, "A2")
	require.True(t, b.CommitProject())

	require.Len(t, b.Profile.Projects, 3)
	assert.Equal(t, []string{"Before", "A2", "After"}, namesOf(b.Profile.Projects))
	edited := b.Profile.Projects[1]
	assert.Equal(t, target, edited.ID)
	assert.Equal(t, "B", edited.Description)
	assert.False(t, b.Draft.Editing())
}

func TestBuilder_BeginEditProject_CopiesTech(t *testing.T) {
	b := newTestBuilder()
	b.SetDraftField(DraftName, "A")
	b.SetDraftField(DraftDescription, "B")
	b.AddDraftTech("Go")
	require.True(t, b.CommitProject())
	id := b.Profile.Projects[0].ID

	require.True(t, b.BeginEditProject(id))
	b.AddDraftTech("Redis")
	b.RemoveDraftTech("Go")

	assert.Equal(t, []string{"Go"}, b.Profile.Projects[0].Tech)
	assert.Equal(t, []string{"Redis"}, b.Draft.Tech)
}

func TestBuilder_BeginEditProject_Unknown(t *testing.T) {
	b := newTestBuilder()
	b.SetDraftField(DraftName, "typing")

	assert.False(t, b.BeginEditProject("missing"))
	assert.Equal(t, "typing", b.Draft.Name)
	assert.False(t, b.Draft.Editing())
}

func TestBuilder_RemoveProject(t *testing.T) {
	b := newTestBuilder()
	commit(b, "A", "a")
	commit(b, "B", "b")

	assert.False(t, b.RemoveProject("missing"))
	assert.True(t, b.RemoveProject(b.Profile.Projects[0].ID))
	assert.Equal(t, []string{"B"}, namesOf(b.Profile.Projects))
}

func TestBuilder_RemoveEditTarget_CommitAppends(t *testing.T) {
	b := newTestBuilder()
	commit(b, "A", "a")
	id := b.Profile.Projects[0].ID

	require.True(t, b.BeginEditProject(id))
	require.True(t, b.RemoveProject(id))
	assert.Equal(t, id, b.Draft.EditingTargetID, "draft is left untouched")

	b.SetDraftField(DraftName, "A2")
	require.True(t, b.CommitProject())

	require.Len(t, b.Profile.Projects, 1)
	assert.Equal(t, "A2", b.Profile.Projects[0].Name)
	assert.NotEqual(t, id, b.Profile.Projects[0].ID)
	assert.False(t, b.Draft.Editing())
}

func TestBuilder_CancelEdit(t *testing.T) {
	b := newTestBuilder()
	assert.False(t, b.CancelEdit())

	commit(b, "A", "a")
	require.True(t, b.BeginEditProject(b.Profile.Projects[0].ID))
	b.SetDraftField(DraftName, "changed")

	assert.True(t, b.CancelEdit())
	assert.Equal(t, NewDraftProject(), b.Draft)
	assert.Equal(t, "A", b.Profile.Projects[0].Name)
}

func TestBuilder_CommitThenRemoveAll(t *testing.T) {
	b := NewBuilder()
	for i := 0; i < 7; i++ {
		commit(b, fmt.Sprintf("P%d", i), "desc")
	}
	require.Len(t, b.Profile.Projects, 7)

	ids := make([]string, 0, 7)
	for _, p := range b.Profile.Projects {
		ids = append(ids, p.ID)
	}
	for _, id := range ids {
		assert.True(t, b.RemoveProject(id))
	}
	assert.Empty(t, b.Profile.Projects)
}

func TestBuilder_SetSocialLinkURL(t *testing.T) {
	b := newTestBuilder()

	assert.True(t, b.SetSocialLinkURL("GitHub", "https://github.com/x"))
	assert.False(t, b.SetSocialLinkURL("MySpace", "https://myspace.com/x"))

	assert.Equal(t, []SocialLink{
		{Platform: "GitHub", URL: "https://github.com/x"},
		{Platform: "LinkedIn"},
		{Platform: "Portfolio"},
	}, b.Profile.SocialLinks)
}

func TestBuilder_Reset(t *testing.T) {
	b := newTestBuilder()
	b.SetField(FieldFullName, "Ada")
	b.SetField(FieldBio, "bio")
	b.SetField(FieldEmail, "a@b.c")
	b.SetField(FieldPhone, "123")
	b.AddSkill("Go")
	b.SetSkillInput("half typed")
	commit(b, "A", "a")
	b.SetSocialLinkURL("LinkedIn", "https://linkedin.com/in/ada")
	b.BeginEditProject(b.Profile.Projects[0].ID)
	b.SetTechInput("Kaf")

	b.Reset()

	assert.Equal(t, NewProfile(), b.Profile)
	assert.Equal(t, NewDraftProject(), b.Draft)
	assert.Equal(t, PendingInput{}, b.Pending)
}

func TestBuilder_Clone_Isolated(t *testing.T) {
	b := newTestBuilder()
	b.AddSkill("Go")
	b.AddDraftTech("Redis")
	commit(b, "A", "a")
	b.AddDraftTech("Kafka")

	c := b.Clone()
	c.AddSkill("Rust")
	c.RemoveDraftTech("Kafka")
	c.SetSocialLinkURL("GitHub", "x")
	c.Profile.Projects[0].Tech = append(c.Profile.Projects[0].Tech, "Mutated")
	c.Profile.Projects[0].Name = "Z"

	assert.Equal(t, []string{"Go"}, b.Profile.Skills)
	assert.Equal(t, []string{"Kafka"}, b.Draft.Tech)
	assert.Equal(t, "", b.Profile.SocialLinks[0].URL)
	assert.Equal(t, "A", b.Profile.Projects[0].Name)
	assert.Equal(t, []string{"Redis"}, b.Profile.Projects[0].Tech)
}

func commit(b *Builder, name, description string) {
	b.SetDraftField(DraftName, name)
	b.SetDraftField(DraftDescription, description)
	b.CommitProject()
}

func namesOf(projects []Project) []string {
	out := make([]string, len(projects))
	for i, p := range projects {
		out[i] = p.Name
	}
	return out
}

func platformsOf(links []SocialLink) []string {
	out := make([]string, len(links))
	for i, l := range links {
		out[i] = l.Platform
	}
	return out
}
