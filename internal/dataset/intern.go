package dataset

// internPool deduplicates low-cardinality strings (station names, user types,
// bike models) so a multi-million row table shares one copy per distinct value.
type internPool struct {
	values map[string]string
}

func newInternPool() *internPool {
	return &internPool{values: make(map[string]string)}
}

func (p *internPool) intern(s string) string {
	if s == "" {
		return ""
	}
	if v, ok := p.values[s]; ok {
		return v
	}
	p.values[s] = s
	return s
}
