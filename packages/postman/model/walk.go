package model

import "fmt"

// NotFoundError is returned when a name lookup does not resolve.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("model: no item named %q", e.Name)
}

// WalkEntry pairs a Request with the ordered ancestor path above it:
// the full chain of Folders the request is nested under, outermost
// first and the request's immediate parent folder last.
type WalkEntry struct {
	Request   *Request
	Ancestors []*Folder
}

// WalkRequests returns every Request reachable from root in depth-first
// pre-order, alongside its ancestor folder chain. No side effects.
func WalkRequests(root []Item) []WalkEntry {
	var out []WalkEntry
	walk(root, nil, &out)
	return out
}

func walk(items []Item, ancestors []*Folder, out *[]WalkEntry) {
	for _, item := range items {
		switch v := item.(type) {
		case *Request:
			*out = append(*out, WalkEntry{Request: v, Ancestors: append([]*Folder(nil), ancestors...)})
		case *Folder:
			walk(v.Items, append(ancestors, v), out)
		}
	}
}

// FindByName returns the first Request matching name in depth-first
// pre-order, or a NotFoundError.
func FindByName(root []Item, name string) (*Request, error) {
	for _, entry := range WalkRequests(root) {
		if entry.Request.Name == name {
			return entry.Request, nil
		}
	}
	return nil, &NotFoundError{Name: name}
}

// Ancestors returns the ordered ancestor folder chain for target,
// collection root first, immediate parent last. Returns nil if target
// is not reachable from root (computed on demand; never stored on the
// tree itself, so the tree carries only forward edges).
func Ancestors(root []Item, target *Request) []*Folder {
	for _, entry := range WalkRequests(root) {
		if entry.Request == target {
			return entry.Ancestors
		}
	}
	return nil
}
