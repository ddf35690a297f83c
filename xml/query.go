package xml

// Walk visits elt and its node descendants in document order. Returning false from fn
// skips the children of the element just visited.
func (elt *Element) Walk(fn func(e *Element) bool) {
	if elt.Type != Node {
		return
	}
	if !fn(elt) {
		return
	}
	// Children may be replaced during the walk
	children := append([]*Element(nil), elt.Children...)
	for _, c := range children {
		c.Walk(fn)
	}
}

// FindAll returns every node below and including elt with the given local name, in document order.
func (elt *Element) FindAll(local string) []*Element {
	var res []*Element
	elt.Walk(func(e *Element) bool {
		if e.Name.Local == local {
			res = append(res, e)
		}
		return true
	})
	return res
}

// IDs indexes every node below and including elt by its id attribute. The first
// element wins when an id is repeated.
func (elt *Element) IDs() map[string]*Element {
	res := make(map[string]*Element)
	elt.Walk(func(e *Element) bool {
		if id, ok := e.Attribute("id"); ok && id != "" {
			if _, dup := res[id]; !dup {
				res[id] = e
			}
		}
		return true
	})
	return res
}
