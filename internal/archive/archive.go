package archive

// Archive - ordered path-to-member mapping with value semantics: every
// mutation returns a new Archive and leaves the receiver untouched, so
// independent values never share mutable state. Iteration follows insertion
// order.
type Archive struct {
	members []Member
	index   map[string]int
	comment string
}

// New - creates an empty archive.
func New() Archive {
	return Archive{}
}

// Add - returns a copy of the archive containing m. An existing member with
// the same path is replaced in place (last write wins, original insertion
// slot kept).
func (a Archive) Add(m Member) Archive {
	next := a.clone()
	if i, ok := next.index[m.path]; ok {
		next.members[i] = m
		return next
	}

	next.index[m.path] = len(next.members)
	next.members = append(next.members, m)
	return next
}

// Remove - returns a copy of the archive without the member at path. A
// missing path yields an unchanged copy.
func (a Archive) Remove(path string) Archive {
	i, ok := a.index[path]
	if !ok {
		return a
	}

	next := Archive{
		members: make([]Member, 0, len(a.members)-1),
		index:   make(map[string]int, len(a.members)-1),
		comment: a.comment,
	}
	for j, m := range a.members {
		if j == i {
			continue
		}
		next.index[m.path] = len(next.members)
		next.members = append(next.members, m)
	}
	return next
}

// Find - looks up the member at path.
func (a Archive) Find(path string) (Member, bool) {
	i, ok := a.index[path]
	if !ok {
		return Member{}, false
	}
	return a.members[i], true
}

// Len - number of members.
func (a Archive) Len() int {
	return len(a.members)
}

// Members - copy of all members in insertion order.
func (a Archive) Members() []Member {
	return append([]Member(nil), a.members...)
}

// Comment - archive-level trailing comment.
func (a Archive) Comment() string {
	return a.comment
}

// WithComment - returns a copy of the archive carrying comment.
func (a Archive) WithComment(comment string) Archive {
	next := a.clone()
	next.comment = comment
	return next
}

func (a Archive) clone() Archive {
	next := Archive{
		members: append([]Member(nil), a.members...),
		index:   make(map[string]int, len(a.index)+1),
		comment: a.comment,
	}
	for p, i := range a.index {
		next.index[p] = i
	}
	return next
}
