package tool

// Args is a validated parameter object. Accessors return the zero value
// for absent or mistyped keys.
type Args map[string]any

func (a Args) Has(key string) bool {
	v, ok := a[key]
	return ok && v != nil
}

func (a Args) String(key string) string {
	s, _ := a[key].(string)
	return s
}

func (a Args) Float(key string) float64 {
	f, _ := toFloat(a[key])
	return f
}

func (a Args) Bool(key string) bool {
	b, _ := a[key].(bool)
	return b
}

func (a Args) Strings(key string) []string {
	items, ok := toSlice(a[key])
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
