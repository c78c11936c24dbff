package participant

import (
	"slices"
	"strings"

	"github.com/klokku/eventroster/pkg/user"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Partition splits a roster into available and selected users. Every roster user is in
// exactly one of the two sets.
type Partition struct {
	available []user.User
	selected  []user.User
}

// New partitions roster so that users whose id is in selectedIds are selected. Both sets keep
// roster order. Ids that match no roster user are ignored.
func New(roster []user.User, selectedIds []string) *Partition {
	wanted := make(map[string]struct{}, len(selectedIds))
	for _, id := range selectedIds {
		wanted[id] = struct{}{}
	}

	p := &Partition{
		available: make([]user.User, 0, len(roster)),
		selected:  make([]user.User, 0, len(selectedIds)),
	}
	seen := make(map[string]struct{}, len(roster))
	for _, u := range roster {
		if u.Id != "" {
			if _, dup := seen[u.Id]; dup {
				continue
			}
			seen[u.Id] = struct{}{}
		}
		if _, ok := wanted[u.Id]; ok && u.Id != "" {
			p.selected = append(p.selected, u)
		} else {
			p.available = append(p.available, u)
		}
	}
	return p
}

// Add moves u from available to selected. It reports whether anything changed.
func (p *Partition) Add(u user.User) bool {
	if u.Id == "" || indexOf(p.selected, u.Id) >= 0 {
		return false
	}
	idx := indexOf(p.available, u.Id)
	if idx < 0 {
		return false
	}
	moved := p.available[idx]
	p.available = slices.Delete(p.available, idx, idx+1)
	p.selected = append(p.selected, moved)
	return true
}

// Remove moves u from selected back to available and re-sorts available by username.
func (p *Partition) Remove(u user.User) bool {
	if u.Id == "" {
		return false
	}
	idx := indexOf(p.selected, u.Id)
	if idx < 0 {
		return false
	}
	moved := p.selected[idx]
	p.selected = slices.Delete(p.selected, idx, idx+1)
	p.available = append(p.available, moved)
	sortByUsername(p.available)
	return true
}

// DerivedIds returns the ids of the selected users, in selection order.
func (p *Partition) DerivedIds() []string {
	ids := make([]string, 0, len(p.selected))
	for _, u := range p.selected {
		ids = append(ids, u.Id)
	}
	return ids
}

func (p *Partition) Available() []user.User {
	return slices.Clone(p.available)
}

func (p *Partition) Selected() []user.User {
	return slices.Clone(p.selected)
}

func (p *Partition) IsSelected(id string) bool {
	return indexOf(p.selected, id) >= 0
}

// Lookup finds the roster user with the given id.
func Lookup(roster []user.User, id string) (user.User, bool) {
	idx := indexOf(roster, id)
	if idx < 0 {
		return user.User{}, false
	}
	return roster[idx], true
}

func indexOf(users []user.User, id string) int {
	return slices.IndexFunc(users, func(u user.User) bool { return u.Id == id })
}

func sortByUsername(users []user.User) {
	// Collators are not safe for concurrent use.
	c := collate.New(language.Und, collate.IgnoreCase)
	slices.SortStableFunc(users, func(a, b user.User) int {
		if r := c.CompareString(a.Username, b.Username); r != 0 {
			return r
		}
		return strings.Compare(a.Id, b.Id)
	})
}
