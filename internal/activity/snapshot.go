package activity

// Store is the read side of the activity history. Implementations return
// collections in a stable creation order; the slices are owned by the
// caller once returned.
type Store interface {
	SessionsOf(playerID string) ([]Session, error)
	ExercisesOf(playerID string) ([]Exercise, error)
	SkillSnapshotsOf(playerID string) ([]SkillSnapshot, error)
}

// Snapshot is the read-only view of one player's history that the metric
// aggregators run against. It is assembled per evaluation call and never
// persisted.
type Snapshot struct {
	Sessions       []Session
	Exercises      []Exercise
	SkillSnapshots []SkillSnapshot
}

// LoadSnapshot assembles a Snapshot for the given player from the store.
func LoadSnapshot(store Store, playerID string) (*Snapshot, error) {
	sessions, err := store.SessionsOf(playerID)
	if err != nil {
		return nil, err
	}
	exercises, err := store.ExercisesOf(playerID)
	if err != nil {
		return nil, err
	}
	snapshots, err := store.SkillSnapshotsOf(playerID)
	if err != nil {
		return nil, err
	}
	return &Snapshot{
		Sessions:       sessions,
		Exercises:      exercises,
		SkillSnapshots: snapshots,
	}, nil
}

// ExercisesByID returns a lookup from exercise id to exercise.
func (s *Snapshot) ExercisesByID() map[string]Exercise {
	idx := make(map[string]Exercise, len(s.Exercises))
	for _, ex := range s.Exercises {
		idx[ex.ID] = ex
	}
	return idx
}
