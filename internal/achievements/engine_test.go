package achievements

import (
	"errors"
	"testing"
	"time"

	"github.com/matchfit/backend/internal/activity"
)

func newTestPlayer() *activity.Player {
	return &activity.Player{
		ID:       "p1",
		Unlocked: map[string]time.Time{},
	}
}

func emptySnapshot() *activity.Snapshot {
	return &activity.Snapshot{}
}

// fakeStore serves a fixed history and can fail on demand.
type fakeStore struct {
	sessions  []activity.Session
	exercises []activity.Exercise
	snapshots []activity.SkillSnapshot
	err       error
}

func (f *fakeStore) SessionsOf(string) ([]activity.Session, error) {
	return f.sessions, f.err
}

func (f *fakeStore) ExercisesOf(string) ([]activity.Exercise, error) {
	return f.exercises, f.err
}

func (f *fakeStore) SkillSnapshotsOf(string) ([]activity.SkillSnapshot, error) {
	return f.snapshots, f.err
}

type fakeXP struct {
	awarded []int
	err     error
}

func (f *fakeXP) Award(p *activity.Player, amount int) error {
	if f.err != nil {
		return f.err
	}
	f.awarded = append(f.awarded, amount)
	p.TotalXP += amount
	return nil
}

type fakePersist struct {
	calls int
	err   error
}

func (f *fakePersist) SaveUnlocks(*activity.Player) error {
	f.calls++
	return f.err
}

func TestCheckAndUnlock_FirstSessionUnlocksFirstTraining(t *testing.T) {
	store := &fakeStore{
		sessions: []activity.Session{sessionAt(day(2025, time.June, 1, 10), 30)},
	}
	xp := &fakeXP{}
	persist := &fakePersist{}
	engine := NewEngine(store, xp, persist)
	player := newTestPlayer()

	newly, err := engine.CheckAndUnlock(player)
	if err != nil {
		t.Fatalf("CheckAndUnlock: %v", err)
	}
	if len(newly) != 1 || newly[0].ID != "first_training" {
		t.Fatalf("newly = %v, want [first_training]", ids(newly))
	}
	if !player.IsUnlocked("first_training") {
		t.Error("first_training not recorded on player")
	}
	if player.TotalXP != 50 {
		t.Errorf("TotalXP = %d, want 50", player.TotalXP)
	}
	if persist.calls != 1 {
		t.Errorf("SaveUnlocks called %d times, want 1", persist.calls)
	}
}

func TestCheckAndUnlock_Idempotent(t *testing.T) {
	store := &fakeStore{
		sessions: []activity.Session{sessionAt(day(2025, time.June, 1, 10), 30)},
	}
	xp := &fakeXP{}
	persist := &fakePersist{}
	engine := NewEngine(store, xp, persist)
	player := newTestPlayer()

	if _, err := engine.CheckAndUnlock(player); err != nil {
		t.Fatalf("first pass: %v", err)
	}
	newly, err := engine.CheckAndUnlock(player)
	if err != nil {
		t.Fatalf("second pass: %v", err)
	}
	if len(newly) != 0 {
		t.Errorf("second pass unlocked %v, want nothing", ids(newly))
	}
	if player.TotalXP != 50 {
		t.Errorf("TotalXP = %d after second pass, want 50", player.TotalXP)
	}
	if persist.calls != 1 {
		t.Errorf("SaveUnlocks called %d times, want 1", persist.calls)
	}
}

func TestCheckAndUnlock_UnlocksNeverRevoked(t *testing.T) {
	store := &fakeStore{
		sessions: []activity.Session{sessionAt(day(2025, time.June, 1, 10), 30)},
	}
	engine := NewEngine(store, &fakeXP{}, &fakePersist{})
	player := newTestPlayer()

	if _, err := engine.CheckAndUnlock(player); err != nil {
		t.Fatalf("CheckAndUnlock: %v", err)
	}

	// History shrinking underneath the player must not claw anything back.
	store.sessions = nil
	if _, err := engine.CheckAndUnlock(player); err != nil {
		t.Fatalf("re-evaluation: %v", err)
	}
	if !player.IsUnlocked("first_training") {
		t.Error("unlock revoked after history disappeared")
	}
}

func TestCheckAndUnlock_MultipleUnlocksInCatalogOrder(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 10; i++ {
		store.sessions = append(store.sessions, sessionAt(day(2025, time.June, i+1, 12), 60))
	}
	xp := &fakeXP{}
	engine := NewEngine(store, xp, &fakePersist{})
	player := newTestPlayer()

	newly, err := engine.CheckAndUnlock(player)
	if err != nil {
		t.Fatalf("CheckAndUnlock: %v", err)
	}
	// 10 sessions of 60min: first_training, sessions_10, minutes_500.
	want := map[string]bool{"first_training": true, "sessions_10": true, "minutes_500": true}
	if len(newly) != len(want) {
		t.Fatalf("newly = %v, want %d entries", ids(newly), len(want))
	}
	for _, def := range newly {
		if !want[def.ID] {
			t.Errorf("unexpected unlock %s", def.ID)
		}
	}
	// Order follows the catalog, and XP is the per-entry sum.
	if newly[0].ID != "first_training" {
		t.Errorf("first unlock is %s, want first_training", newly[0].ID)
	}
	var wantXP int
	for _, amount := range xp.awarded {
		wantXP += amount
	}
	if player.TotalXP != wantXP {
		t.Errorf("TotalXP = %d, want %d", player.TotalXP, wantXP)
	}
}

func TestCheckAndUnlock_StoreErrorAbortsEvaluation(t *testing.T) {
	store := &fakeStore{err: errors.New("connection reset")}
	persist := &fakePersist{}
	engine := NewEngine(store, &fakeXP{}, persist)
	player := newTestPlayer()

	newly, err := engine.CheckAndUnlock(player)
	if err == nil {
		t.Fatal("expected error from failing store")
	}
	if len(newly) != 0 {
		t.Errorf("newly = %v on store failure, want nothing", ids(newly))
	}
	if persist.calls != 0 {
		t.Error("SaveUnlocks called despite load failure")
	}
}

func TestCheckAndUnlock_AwardErrorStopsAndSurfaces(t *testing.T) {
	store := &fakeStore{
		sessions: []activity.Session{sessionAt(day(2025, time.June, 1, 10), 30)},
	}
	xp := &fakeXP{err: errors.New("ledger down")}
	persist := &fakePersist{}
	engine := NewEngine(store, xp, persist)
	player := newTestPlayer()

	newly, err := engine.CheckAndUnlock(player)
	if err == nil {
		t.Fatal("expected award error to surface")
	}
	// The unlock itself stands and still gets persisted; only the credit
	// failed, and re-crediting is not the engine's job.
	if len(newly) != 1 {
		t.Fatalf("newly = %v, want the failed unlock reported", ids(newly))
	}
	if !player.IsUnlocked("first_training") {
		t.Error("unlock rolled back after award failure")
	}
	if persist.calls != 1 {
		t.Errorf("SaveUnlocks called %d times, want 1", persist.calls)
	}
}

func TestCheckAndUnlock_PersistErrorSurfacesWithoutRollback(t *testing.T) {
	store := &fakeStore{
		sessions: []activity.Session{sessionAt(day(2025, time.June, 1, 10), 30)},
	}
	persist := &fakePersist{err: errors.New("write conflict")}
	engine := NewEngine(store, &fakeXP{}, persist)
	player := newTestPlayer()

	newly, err := engine.CheckAndUnlock(player)
	if err == nil {
		t.Fatal("expected persistence error to surface")
	}
	if len(newly) != 1 {
		t.Fatalf("newly = %v, want one unlock", ids(newly))
	}
	if player.TotalXP != 50 {
		t.Errorf("TotalXP = %d, want the awarded 50 kept", player.TotalXP)
	}
}

func TestCheckAndUnlock_NoUnlocksSkipsPersistence(t *testing.T) {
	persist := &fakePersist{}
	engine := NewEngine(&fakeStore{}, &fakeXP{}, persist)

	newly, err := engine.CheckAndUnlock(newTestPlayer())
	if err != nil {
		t.Fatalf("CheckAndUnlock: %v", err)
	}
	if len(newly) != 0 {
		t.Errorf("newly = %v, want nothing", ids(newly))
	}
	if persist.calls != 0 {
		t.Error("SaveUnlocks called with nothing to save")
	}
}

func TestCheckAndUnlock_NilUnlockedMapInitialized(t *testing.T) {
	store := &fakeStore{
		sessions: []activity.Session{sessionAt(day(2025, time.June, 1, 10), 30)},
	}
	engine := NewEngine(store, &fakeXP{}, &fakePersist{})
	player := &activity.Player{ID: "fresh"}

	if _, err := engine.CheckAndUnlock(player); err != nil {
		t.Fatalf("CheckAndUnlock: %v", err)
	}
	if !player.IsUnlocked("first_training") {
		t.Error("unlock not recorded on player with nil map")
	}
}

func TestIsUnlocked_UnknownIDIsFalse(t *testing.T) {
	engine := NewEngine(&fakeStore{}, &fakeXP{}, &fakePersist{})
	player := newTestPlayer()
	player.Unlocked["first_training"] = time.Now()

	if !engine.IsUnlocked("first_training", player) {
		t.Error("recorded unlock reported locked")
	}
	if engine.IsUnlocked("no_such_achievement", player) {
		t.Error("unknown id reported unlocked")
	}
}

func TestUnlockedAndLockedPartitionCatalog(t *testing.T) {
	engine := NewEngine(&fakeStore{}, &fakeXP{}, &fakePersist{})
	player := newTestPlayer()
	player.Unlocked["first_training"] = time.Now()
	player.Unlocked["sessions_10"] = time.Now()

	unlocked := engine.UnlockedAchievements(player)
	locked := engine.LockedAchievements(player)

	if len(unlocked) != 2 {
		t.Fatalf("unlocked = %v, want 2 entries", ids(unlocked))
	}
	if unlocked[0].ID != "first_training" {
		t.Errorf("unlocked[0] = %s, want catalog order", unlocked[0].ID)
	}
	if got := len(unlocked) + len(locked); got != len(engine.Catalog()) {
		t.Errorf("partition covers %d entries, catalog has %d", got, len(engine.Catalog()))
	}
	for _, def := range locked {
		if player.IsUnlocked(def.ID) {
			t.Errorf("%s appears in the locked list while unlocked", def.ID)
		}
	}
}

func TestEngineProgress_ClampsAtOne(t *testing.T) {
	store := &fakeStore{}
	for i := 0; i < 15; i++ {
		store.sessions = append(store.sessions, sessionAt(day(2025, time.June, i+1, 10), 30))
	}
	engine := NewEngine(store, &fakeXP{}, &fakePersist{})

	def := Definition{ID: "sessions_10", Requirement: SessionCount{Target: 10}}
	got, err := engine.Progress(def, newTestPlayer())
	if err != nil {
		t.Fatalf("Progress: %v", err)
	}
	if got != 1.0 {
		t.Errorf("15/10 sessions: progress = %v, want clamped 1.0", got)
	}
}

func TestCatalogReturnsACopy(t *testing.T) {
	engine := NewEngine(&fakeStore{}, &fakeXP{}, &fakePersist{})
	first := engine.Catalog()
	first[0].ID = "mutated"
	if engine.Catalog()[0].ID == "mutated" {
		t.Error("Catalog exposes internal slice")
	}
}

func ids(defs []Definition) []string {
	out := make([]string, len(defs))
	for i, def := range defs {
		out[i] = def.ID
	}
	return out
}
