package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/khoahotran/portfolio-builder/internal/application/service"
	"github.com/khoahotran/portfolio-builder/internal/domain/portfolio"
	"github.com/khoahotran/portfolio-builder/pkg/apperror"
)

type ActionKind string

const (
	ActionSave          ActionKind = "save"
	ActionAddSkill      ActionKind = "add_skill"
	ActionRemoveSkill   ActionKind = "remove_skill"
	ActionAddTech       ActionKind = "add_tech"
	ActionRemoveTech    ActionKind = "remove_tech"
	ActionCommitProject ActionKind = "commit_project"
	ActionEditProject   ActionKind = "edit_project"
	ActionCancelEdit    ActionKind = "cancel_edit"
	ActionRemoveProject ActionKind = "remove_project"
	ActionReset         ActionKind = "reset"
	ActionPreview       ActionKind = "preview"
	ActionEdit          ActionKind = "edit"
)

var actionArgRequired = map[ActionKind]bool{
	ActionSave:          false,
	ActionAddSkill:      false,
	ActionRemoveSkill:   true,
	ActionAddTech:       false,
	ActionRemoveTech:    true,
	ActionCommitProject: false,
	ActionEditProject:   true,
	ActionCancelEdit:    false,
	ActionRemoveProject: true,
	ActionReset:         false,
	ActionPreview:       false,
	ActionEdit:          false,
}

// FormAction is the button a form submission was triggered by, encoded as
// "kind" or "kind:argument".
type FormAction struct {
	Kind ActionKind
	Arg  string
}

func ParseFormAction(raw string) (FormAction, error) {
	if raw == "" {
		return FormAction{Kind: ActionSave}, nil
	}
	kind, arg, hasArg := strings.Cut(raw, ":")
	a := FormAction{Kind: ActionKind(kind), Arg: arg}

	needsArg, known := actionArgRequired[a.Kind]
	if !known {
		return FormAction{}, fmt.Errorf("unknown form action %q", kind)
	}
	if needsArg && (!hasArg || arg == "") {
		return FormAction{}, fmt.Errorf("form action %q needs an argument", kind)
	}
	return a, nil
}

// FormInput mirrors a submission of the whole edit form. Only the inputs
// present in the submission are set; nil buffers are left alone.
type FormInput struct {
	Fields      map[portfolio.ProfileField]string
	SocialLinks map[string]string
	Draft       map[portfolio.DraftField]string
	SkillInput  *string
	TechInput   *string
	Action      FormAction
}

// SubmitForm applies every input of the edit form and then the action, as one
// atomic update of the session.
func (uc *BuilderUseCase) SubmitForm(ctx context.Context, id uuid.UUID, in FormInput) (*MutationOutput, error) {
	if _, ok := actionArgRequired[in.Action.Kind]; !ok {
		return nil, apperror.NewInvalidInput(fmt.Sprintf("unknown form action %q", in.Action.Kind), nil)
	}
	return uc.mutate(ctx, "SubmitForm."+string(in.Action.Kind), id, func(s *portfolio.Session) []change {
		if in.Action.Kind == ActionReset {
			s.Reset()
			return []change{{eventType: service.EventBuilderReset}}
		}
		changes := applyInputs(s.Builder, in)
		return append(changes, applyAction(s, in)...)
	})
}

func applyInputs(b *portfolio.Builder, in FormInput) []change {
	var changes []change
	for _, f := range portfolio.ProfileFields {
		v, ok := in.Fields[f]
		if !ok || v == profileField(b.Profile, f) {
			continue
		}
		changes = append(changes, when(b.SetField(f, v), service.EventFieldSet, "field", string(f))...)
	}
	for _, link := range b.Profile.SocialLinks {
		v, ok := in.SocialLinks[link.Platform]
		if !ok || v == link.URL {
			continue
		}
		changes = append(changes, when(b.SetSocialLinkURL(link.Platform, v), service.EventSocialLinkSet, "platform", link.Platform)...)
	}
	for _, f := range portfolio.DraftFields {
		v, ok := in.Draft[f]
		if !ok || v == draftField(b.Draft, f) {
			continue
		}
		changes = append(changes, when(b.SetDraftField(f, v), service.EventDraftFieldSet, "field", string(f))...)
	}
	if in.SkillInput != nil {
		changes = append(changes, when(b.SetSkillInput(*in.SkillInput), "")...)
	}
	if in.TechInput != nil {
		changes = append(changes, when(b.SetTechInput(*in.TechInput), "")...)
	}
	return changes
}

func applyAction(s *portfolio.Session, in FormInput) []change {
	b := s.Builder
	arg := in.Action.Arg
	switch in.Action.Kind {
	case ActionAddSkill:
		return when(b.AddSkill(b.Pending.Skill), service.EventSkillAdded)
	case ActionRemoveSkill:
		return when(b.RemoveSkill(arg), service.EventSkillRemoved)
	case ActionAddTech:
		return when(b.AddDraftTech(b.Pending.Tech), service.EventDraftTechAdded)
	case ActionRemoveTech:
		return when(b.RemoveDraftTech(arg), service.EventDraftTechRemoved)
	case ActionCommitProject:
		return commitProject(s)
	case ActionEditProject:
		return when(b.BeginEditProject(arg), service.EventProjectEditStarted, "project_id", arg)
	case ActionCancelEdit:
		return when(b.CancelEdit(), service.EventProjectEditCancel)
	case ActionRemoveProject:
		return when(b.RemoveProject(arg), service.EventProjectRemoved, "project_id", arg)
	case ActionPreview:
		return when(s.SetMode(portfolio.ModePreview), service.EventModeChanged, "mode", portfolio.ModePreview.String())
	case ActionEdit:
		return when(s.SetMode(portfolio.ModeEdit), service.EventModeChanged, "mode", portfolio.ModeEdit.String())
	}
	return nil
}

func profileField(p portfolio.Profile, f portfolio.ProfileField) string {
	switch f {
	case portfolio.FieldFullName:
		return p.FullName
	case portfolio.FieldBio:
		return p.Bio
	case portfolio.FieldEmail:
		return p.Email
	case portfolio.FieldPhone:
		return p.Phone
	}
	return ""
}

func draftField(d portfolio.DraftProject, f portfolio.DraftField) string {
	switch f {
	case portfolio.DraftName:
		return d.Name
	case portfolio.DraftDescription:
		return d.Description
	case portfolio.DraftLink:
		return d.Link
	}
	return ""
}
