package scatter

// State is the session-local interaction state: which point the pointer is
// over and which cluster is selected. The two are independent axes — a point
// can be hovered while another cluster is selected.
//
// All transitions run on the UI loop in arrival order; there is no other
// writer, so no locking is needed. A new snapshot resets the state to empty.
type State struct {
	hovered  int // index into the snapshot's point slice, -1 = none
	selected int // cluster id, valid only when hasSelection
	hasSel   bool
}

// NewState returns the empty (Idle) state.
func NewState() State {
	return State{hovered: -1}
}

// Hover records the pointer entering the hit region of point i.
func (s *State) Hover(i int) {
	if i < 0 {
		s.hovered = -1
		return
	}
	s.hovered = i
}

// ClearHover records the pointer leaving the current hit region.
func (s *State) ClearHover() {
	s.hovered = -1
}

// HoveredIndex returns the hovered point index, if any.
func (s *State) HoveredIndex() (int, bool) {
	if s.hovered < 0 {
		return 0, false
	}
	return s.hovered, true
}

// ToggleCluster selects cluster k, or deselects it when it is already the
// selection. Toggling the same id twice always returns to no selection.
func (s *State) ToggleCluster(k int) {
	if s.hasSel && s.selected == k {
		s.hasSel = false
		return
	}
	s.selected = k
	s.hasSel = true
}

// ClearSelection drops the cluster selection, keeping hover untouched.
func (s *State) ClearSelection() {
	s.hasSel = false
}

// SelectedCluster returns the selected cluster id, if any.
func (s *State) SelectedCluster() (int, bool) {
	if !s.hasSel {
		return 0, false
	}
	return s.selected, true
}

// Reset returns to Idle. Called whenever a new snapshot replaces the data.
func (s *State) Reset() {
	s.hovered = -1
	s.hasSel = false
}

// Opacity returns the render opacity for a point in the given cluster under
// the current selection: full when nothing is selected or the point belongs
// to the selected cluster, dimmed otherwise. The exact constants are
// presentation tuning; the relative dimming is the contract.
func (s *State) Opacity(clusterID int) float64 {
	if !s.hasSel || s.selected == clusterID {
		return FullOpacity
	}
	return DimOpacity
}
