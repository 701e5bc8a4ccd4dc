package tui

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// applyFilter recomputes the visible workspace list from the filter
// query, keeping the selection on the same workspace when possible.
func (m *Model) applyFilter() {
	var selectedID string
	if ws := m.selectedWorkspace(); ws != nil {
		selectedID = ws.ID
	}

	query := strings.TrimSpace(m.filter.Value())
	if query == "" {
		m.filtered = make([]int, len(m.workspaces))
		for i := range m.workspaces {
			m.filtered[i] = i
		}
	} else {
		names := make([]string, len(m.workspaces))
		for i, ws := range m.workspaces {
			names[i] = ws.DisplayName()
		}
		matches := fuzzy.Find(query, names)
		m.filtered = make([]int, 0, len(matches))
		for _, match := range matches {
			m.filtered = append(m.filtered, match.Index)
		}
	}

	m.selected = 0
	if selectedID != "" {
		for i, idx := range m.filtered {
			if m.workspaces[idx].ID == selectedID {
				m.selected = i
				break
			}
		}
	}
}
