package tui

// ActionKind is the reducer's output vocabulary (§4.8): Tick, AddState,
// RemoveState, RefreshTasks, Quit.
type ActionKind int

const (
	ActionTick ActionKind = iota
	ActionAddState
	ActionRemoveState
	ActionRefreshTasks
	ActionQuit
)

// Action is one reducer output: what changed, and for AddState/RemoveState,
// which presence flags are involved.
type Action struct {
	Kind  ActionKind
	Entry StateEntry // FileName plus the flags to merge; only meaningful for AddState/RemoveState
}

// Reduce maps one normalised filesystem Event to an Action, per the table
// in §4.8. selected is the currently selected entry's file name (possibly
// empty, if nothing is selected yet).
func Reduce(ev Event, selected string) Action {
	switch ev.Type {
	case Modified:
		if ev.Name == selected {
			return Action{Kind: ActionRefreshTasks}
		}
		return Action{Kind: ActionTick}

	case Arrived:
		if ev.Dir == KindRuntime {
			return Action{Kind: ActionAddState, Entry: StateEntry{FileName: ev.Name, Runtime: true, Running: true}}
		}
		return Action{Kind: ActionAddState, Entry: StateEntry{FileName: ev.Name, Persistent: true}}

	case Departed:
		if ev.Dir == KindRuntime {
			return Action{Kind: ActionRemoveState, Entry: StateEntry{FileName: ev.Name, Runtime: true, Running: true}}
		}
		return Action{Kind: ActionRemoveState, Entry: StateEntry{FileName: ev.Name, Persistent: true}}

	case CloseAfterWrite:
		if ev.Dir == KindRuntime {
			return Action{Kind: ActionRemoveState, Entry: StateEntry{FileName: ev.Name, Running: true}}
		}
		return Action{Kind: ActionTick}

	default:
		return Action{Kind: ActionTick}
	}
}
