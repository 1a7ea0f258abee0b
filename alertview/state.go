package alertview

// Phase tags which variant of FetchState is active.
type Phase int

const (
	// Idle is the state before Mount.
	Idle Phase = iota
	Loading
	Failed
	Loaded
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Failed:
		return "error"
	case Loaded:
		return "loaded"
	}
	return "unknown"
}

// FetchState is Loading, Error(Message) or Loaded(Groups). Only the fields of
// the active phase are meaningful.
type FetchState struct {
	Phase   Phase
	Message string
	Groups  []RuleGroup
}

// Terminal reports whether no further transition can happen for this mount.
func (s FetchState) Terminal() bool {
	return s.Phase == Failed || s.Phase == Loaded
}

func loadingState() FetchState {
	return FetchState{Phase: Loading}
}

func errorState(message string) FetchState {
	return FetchState{Phase: Failed, Message: message}
}

func loadedState(groups []RuleGroup) FetchState {
	return FetchState{Phase: Loaded, Groups: groups}
}
