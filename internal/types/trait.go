package types

// Method is a named trait requirement.
type Method struct {
	Name string
	Sig  *Fn
}

// Trait lists method signatures an impl must provide.
type Trait struct {
	Name    string
	Methods []Method
}

func (*Trait) Kind() Kind { return KindTrait }

func (t *Trait) String() string { return t.Name }

// Method looks up a requirement by name.
func (t *Trait) Method(name string) (*Fn, bool) {
	for _, m := range t.Methods {
		if m.Name == name {
			return m.Sig, true
		}
	}
	return nil, false
}
