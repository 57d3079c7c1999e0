package datagrid

// Selection is an immutable set of row keys. Insertion order is kept for
// reporting only. The zero value is empty.
type Selection struct {
	set   map[RowKey]struct{}
	order []RowKey
}

// NewSelection returns a selection holding keys, duplicates ignored.
func NewSelection(keys ...RowKey) Selection {
	s := Selection{
		set:   make(map[RowKey]struct{}, len(keys)),
		order: make([]RowKey, 0, len(keys)),
	}
	for _, k := range keys {
		s.add(k)
	}
	return s
}

// add inserts key in place. Only builders that own s may call it.
func (s *Selection) add(key RowKey) {
	if _, ok := s.set[key]; ok {
		return
	}
	s.set[key] = struct{}{}
	s.order = append(s.order, key)
}

// Has reports whether key is selected.
func (s Selection) Has(key RowKey) bool {
	_, ok := s.set[key]
	return ok
}

// Len returns the number of selected keys.
func (s Selection) Len() int { return len(s.order) }

// Keys returns the selected keys in the order they were selected.
func (s Selection) Keys() []RowKey {
	out := make([]RowKey, len(s.order))
	copy(out, s.order)
	return out
}

func (s Selection) with(key RowKey) Selection {
	if s.Has(key) {
		return s
	}
	next := Selection{
		set:   make(map[RowKey]struct{}, len(s.set)+1),
		order: make([]RowKey, 0, len(s.order)+1),
	}
	for _, k := range s.order {
		next.add(k)
	}
	next.add(key)
	return next
}

func (s Selection) without(key RowKey) Selection {
	if !s.Has(key) {
		return s
	}
	next := Selection{
		set:   make(map[RowKey]struct{}, len(s.set)),
		order: make([]RowKey, 0, len(s.order)),
	}
	for _, k := range s.order {
		if k == key {
			continue
		}
		next.set[k] = struct{}{}
		next.order = append(next.order, k)
	}
	return next
}

// retain keeps only keys present in keep.
func (s Selection) retain(keep map[RowKey]struct{}) Selection {
	next := Selection{
		set:   make(map[RowKey]struct{}, len(s.order)),
		order: make([]RowKey, 0, len(s.order)),
	}
	for _, k := range s.order {
		if _, ok := keep[k]; ok {
			next.add(k)
		}
	}
	return next
}

// ToggleRow adds key when absent and removes it when present.
func ToggleRow(sel Selection, key RowKey) Selection {
	if sel.Has(key) {
		return sel.without(key)
	}
	return sel.with(key)
}

// SetRow sets the checked state of key.
func SetRow(sel Selection, key RowKey, checked bool) Selection {
	if checked {
		return sel.with(key)
	}
	return sel.without(key)
}

// ToggleAll returns exactly the displayed keys when checked, and an empty
// selection otherwise.
func ToggleAll(checked bool, displayed []RowKey) Selection {
	if !checked {
		return Selection{}
	}
	return NewSelection(displayed...)
}

// CheckState is the header checkbox state.
type CheckState struct {
	Checked       bool
	Indeterminate bool
}

// HeaderCheckState reports Checked when at least one row is displayed and
// every displayed key is selected, and Indeterminate when the selected
// displayed keys are a non-empty proper subset.
func HeaderCheckState(displayed []RowKey, sel Selection) CheckState {
	if len(displayed) == 0 {
		return CheckState{}
	}
	selected := 0
	for _, k := range displayed {
		if sel.Has(k) {
			selected++
		}
	}
	return CheckState{
		Checked:       selected == len(displayed),
		Indeterminate: selected > 0 && selected < len(displayed),
	}
}

// SelectedRows filters rows, keyed by the parallel slice rowKeys, down to
// those in sel. The result keeps input order.
func SelectedRows(rows []Row, rowKeys []RowKey, sel Selection) []Row {
	out := make([]Row, 0, sel.Len())
	for i, r := range rows {
		if i < len(rowKeys) && sel.Has(rowKeys[i]) {
			out = append(out, r)
		}
	}
	return out
}
