package models

import (
	"errors"
	"slices"
	"time"
)

// ErrCycle is returned when a folder would become its own ancestor
var ErrCycle = errors.New("folder cannot contain itself")

// ItemType represents the type of node (bookmark or folder)
type ItemType string

const (
	ItemTypeBookmark ItemType = "bookmark"
	ItemTypeFolder   ItemType = "folder"
)

// Node is either a *Bookmark or a *Folder.
type Node interface {
	Info() *Entry
	Parent() *Folder
	Type() ItemType
	node()
}

// Entry holds the fields shared by bookmarks and folders
type Entry struct {
	Title       string
	Depth       int
	CreatedDate time.Time

	parent *Folder
}

// Info returns the shared fields of the node
func (e *Entry) Info() *Entry { return e }

// Parent returns the enclosing folder, nil for the root or a detached node
func (e *Entry) Parent() *Folder { return e.parent }

// Bookmark represents a bookmark entry
type Bookmark struct {
	Entry
	Icon string // embedded image reference, empty when absent
	Link string
}

func (*Bookmark) node() {}

// Type returns ItemTypeBookmark
func (*Bookmark) Type() ItemType { return ItemTypeBookmark }

// Folder represents a bookmark folder
type Folder struct {
	Entry
	LastModifiedDate      time.Time
	PersonalToolbarFolder bool

	children []Node
}

func (*Folder) node() {}

// Type returns ItemTypeFolder
func (*Folder) Type() ItemType { return ItemTypeFolder }

// NewRoot creates the root folder of a document
func NewRoot(title string) *Folder {
	epoch := time.Unix(0, 0).UTC()
	return &Folder{
		Entry:            Entry{Title: title, CreatedDate: epoch},
		LastModifiedDate: epoch,
	}
}

// FullTitle returns the folder path built from the titles of its ancestors,
// e.g. "/Bookmarks/Bookmarks bar".
func (f *Folder) FullTitle() string {
	if f.parent == nil {
		return "/" + f.Title
	}
	return f.parent.FullTitle() + "/" + f.Title
}

// Children returns the folder content in order. The slice must not be modified.
func (f *Folder) Children() []Node {
	return f.children
}

// Append adds n as the last child. A node that already has a parent is
// detached from it first. Depths of the moved subtree are re-derived.
func (f *Folder) Append(n Node) error {
	if sub, ok := n.(*Folder); ok && sub.Contains(f) {
		return ErrCycle
	}
	if old := n.Parent(); old != nil {
		old.Remove(n)
	}
	n.Info().parent = f
	setDepth(n, f.Depth+1)
	f.children = append(f.children, n)
	return nil
}

// Remove detaches n from the folder. It reports whether n was a child.
func (f *Folder) Remove(n Node) bool {
	i := slices.IndexFunc(f.children, func(c Node) bool { return c == n })
	if i < 0 {
		return false
	}
	f.children = slices.Delete(f.children, i, i+1)
	n.Info().parent = nil
	return true
}

// Detach removes the node from its parent, if any
func Detach(n Node) {
	if p := n.Parent(); p != nil {
		p.Remove(n)
	}
}

// TakeChildren empties the folder and returns its former children, detached.
func (f *Folder) TakeChildren() []Node {
	taken := f.children
	f.children = nil
	for _, c := range taken {
		c.Info().parent = nil
	}
	return taken
}

// Contains reports whether n is f itself or lies anywhere below it
func (f *Folder) Contains(n Node) bool {
	for cur := n; cur != nil; {
		if cur == Node(f) {
			return true
		}
		p := cur.Parent()
		if p == nil {
			return false
		}
		cur = p
	}
	return false
}

// Child returns the first direct sub-folder with the given title
func (f *Folder) Child(title string) *Folder {
	for _, c := range f.children {
		if sub, ok := c.(*Folder); ok && sub.Title == title {
			return sub
		}
	}
	return nil
}

// HasBookmarks reports whether any bookmark exists in the folder's subtree
func (f *Folder) HasBookmarks() bool {
	for _, c := range f.children {
		switch n := c.(type) {
		case *Bookmark:
			return true
		case *Folder:
			if n.HasBookmarks() {
				return true
			}
		}
	}
	return false
}

func setDepth(n Node, depth int) {
	n.Info().Depth = depth
	if f, ok := n.(*Folder); ok {
		for _, c := range f.children {
			setDepth(c, depth+1)
		}
	}
}

// Flatten returns the folder and all nodes below it in pre-order
// (each folder precedes its content).
func Flatten(root *Folder) []Node {
	out := []Node{root}
	for _, c := range root.children {
		switch n := c.(type) {
		case *Bookmark:
			out = append(out, n)
		case *Folder:
			out = append(out, Flatten(n)...)
		}
	}
	return out
}

// Bookmarks returns every bookmark of the tree in document order
func Bookmarks(root *Folder) []*Bookmark {
	var out []*Bookmark
	for _, n := range Flatten(root) {
		if b, ok := n.(*Bookmark); ok {
			out = append(out, b)
		}
	}
	return out
}

// Folders returns every folder of the tree, root first, in document order
func Folders(root *Folder) []*Folder {
	var out []*Folder
	for _, n := range Flatten(root) {
		if f, ok := n.(*Folder); ok {
			out = append(out, f)
		}
	}
	return out
}

// Path returns the node location, e.g. "/Bookmarks/Work/Go docs"
func Path(n Node) string {
	if f, ok := n.(*Folder); ok {
		return f.FullTitle()
	}
	if p := n.Parent(); p != nil {
		return p.FullTitle() + "/" + n.Info().Title
	}
	return "/" + n.Info().Title
}
