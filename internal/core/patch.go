package core

import (
	"errors"
	"strings"
)

// Patch types carry partial updates for the CRUD endpoints. A nil field means
// "leave unchanged"; a patch with every field nil is rejected rather than
// silently applied as a no-op.

var ErrEmptyPatch = errors.New("no fields to update")

type PersonPatch struct {
	Name   *string `json:"name"`
	Role   *Role   `json:"role"`
	Avatar *string `json:"avatar"`
	Color  *string `json:"color"`
}

func (p PersonPatch) IsEmpty() bool {
	return p.Name == nil && p.Role == nil && p.Avatar == nil && p.Color == nil
}

func (p PersonPatch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrEmptyName
	}
	if p.Role != nil && !p.Role.Valid() {
		return ErrInvalidRole
	}
	return nil
}

type ChorePatch struct {
	Title      *string    `json:"title"`
	AssignedTo *int64     `json:"assigned_to"`
	Reward     *int64     `json:"reward"`
	Frequency  *Frequency `json:"frequency"`
}

func (p ChorePatch) IsEmpty() bool {
	return p.Title == nil && p.AssignedTo == nil && p.Reward == nil && p.Frequency == nil
}

func (p ChorePatch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return ErrEmptyTitle
	}
	if p.Reward != nil && *p.Reward < 0 {
		return ErrNegativeReward
	}
	if p.Frequency != nil && !p.Frequency.Valid() {
		return ErrInvalidFrequency
	}
	return nil
}

type PrizePatch struct {
	Name  *string `json:"name"`
	Cost  *int64  `json:"cost"`
	Emoji *string `json:"emoji"`
}

func (p PrizePatch) IsEmpty() bool {
	return p.Name == nil && p.Cost == nil && p.Emoji == nil
}

func (p PrizePatch) Validate() error {
	if p.IsEmpty() {
		return ErrEmptyPatch
	}
	if p.Name != nil && strings.TrimSpace(*p.Name) == "" {
		return ErrEmptyName
	}
	if p.Cost != nil && *p.Cost < 0 {
		return ErrNegativeCost
	}
	return nil
}
