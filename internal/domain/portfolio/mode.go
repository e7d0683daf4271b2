package portfolio

import (
	"errors"
	"strings"
)

type RenderMode string

const (
	ModeEdit    RenderMode = "edit"
	ModePreview RenderMode = "preview"
)

var ErrInvalidMode = errors.New("render mode must be edit or preview")

func ParseRenderMode(s string) (RenderMode, error) {
	switch RenderMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeEdit:
		return ModeEdit, nil
	case ModePreview:
		return ModePreview, nil
	}
	return "", ErrInvalidMode
}

func (m RenderMode) String() string {
	return string(m)
}
