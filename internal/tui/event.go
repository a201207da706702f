package tui

// DirKind identifies which of the two state directories an Event concerns.
type DirKind int

const (
	KindRuntime DirKind = iota
	KindPersistent
)

// EventType is the normalised filesystem change an Event reports. fsnotify
// does not distinguish a plain create from the create half of a rename
// (move-in), nor a plain remove from the remove half of a rename
// (move-out); per the reducer table in §4.8 those pairs drive identical
// actions, so Arrived/Departed each stand in for both members of their
// pair.
type EventType int

const (
	Arrived           EventType = iota // Created or MovedTo
	Departed                           // Deleted or MovedFrom
	Modified                           // contents rewritten
	CloseAfterWrite                    // lock released, file left in place
	WatcherOverflowed                  // kernel queue dropped events; resync
)

// Event is one normalised filesystem notification delivered by Watcher.
type Event struct {
	Dir  DirKind
	Name string
	Type EventType
}
