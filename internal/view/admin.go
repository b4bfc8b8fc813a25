package view

import (
	"strings"

	"taskboard/internal/model"
)

// All matches every status or user in a filter.
const All = "all"

type Tab string

const (
	TabAll       Tab = "all"
	TabSubmitted Tab = "submitted"
	TabApproved  Tab = "approved"
	TabRejected  Tab = "rejected"
)

func (t Tab) Valid() bool {
	switch t {
	case TabAll, TabSubmitted, TabApproved, TabRejected:
		return true
	}
	return false
}

// AdminFilter narrows the admin task table. Empty Status or UserID means all.
type AdminFilter struct {
	Search string
	Status string
	UserID string
}

func (f AdminFilter) Match(t model.Task) bool {
	if f.Search != "" {
		q := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	if !matchesOrAll(f.Status, string(t.Status)) {
		return false
	}
	return matchesOrAll(f.UserID, t.UserID)
}

func (f AdminFilter) Apply(tasks []model.Task) []model.Task {
	return filter(tasks, f.Match)
}

// TabCounts are the badge numbers shown on each admin tab.
type TabCounts struct {
	All       int `json:"all"`
	Submitted int `json:"submitted"`
	Approved  int `json:"approved"`
	Rejected  int `json:"rejected"`
}

type AdminTable struct {
	Tab    Tab          `json:"tab"`
	Counts TabCounts    `json:"counts"`
	Tasks  []model.Task `json:"tasks"`
}

// BuildAdminTable filters tasks, then narrows to the tab. Counts are taken
// over the filtered set so they do not depend on the selected tab.
func BuildAdminTable(tasks []model.Task, f AdminFilter, tab Tab) AdminTable {
	filtered := f.Apply(tasks)
	counts := TabCounts{All: len(filtered)}
	for _, t := range filtered {
		switch t.Status {
		case model.StatusSubmitted:
			counts.Submitted++
		case model.StatusApproved:
			counts.Approved++
		case model.StatusRejected:
			counts.Rejected++
		}
	}

	rows := filtered
	if tab != TabAll && tab != "" {
		rows = filter(filtered, func(t model.Task) bool { return string(t.Status) == string(tab) })
	}
	if tab == "" {
		tab = TabAll
	}
	return AdminTable{Tab: tab, Counts: counts, Tasks: rows}
}

func matchesOrAll(want, got string) bool {
	return want == "" || want == All || want == got
}
