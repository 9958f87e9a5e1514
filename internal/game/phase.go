package game

// Phase is the client-side game phase, derived from each snapshot.
// The authority never sends it.
type Phase int

const (
	PhasePlaying Phase = iota
	PhaseTutorialActive
	PhaseChoicePending
	PhaseGameOver
)

// String returns a human-readable name for the phase.
func (p Phase) String() string {
	switch p {
	case PhasePlaying:
		return "playing"
	case PhaseTutorialActive:
		return "tutorial"
	case PhaseChoicePending:
		return "choice"
	case PhaseGameOver:
		return "game over"
	default:
		return "unknown"
	}
}

// DerivePhase computes the phase of a snapshot.
// A goal message wins over everything, then pending choices, then tutorial text.
func DerivePhase(s Snapshot) Phase {
	switch {
	case s.Finished():
		return PhaseGameOver
	case s.HasChoices():
		return PhaseChoicePending
	case s.HasTutorial():
		return PhaseTutorialActive
	default:
		return PhasePlaying
	}
}
