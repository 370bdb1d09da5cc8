package query

// SortRule binds a public sort name to a column and its default direction.
type SortRule struct {
	Column       string
	DefaultOrder Order
}

// SortMap is owned by each resource: it decides which sort names exist and
// what happens when none (or an unknown one) is requested.
type SortMap struct {
	Rules    map[string]SortRule
	Fallback SortRule
}

type OrderBy struct {
	Column string
	Desc   bool
}

func (m SortMap) Resolve(q ListQuery) OrderBy {
	rule, ok := m.Rules[q.Sort]
	if !ok {
		rule = m.Fallback
	}
	order := rule.DefaultOrder
	if q.Order != "" {
		order = q.Order
	}
	return OrderBy{Column: rule.Column, Desc: order == Desc}
}
