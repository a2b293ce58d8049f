package demo

import (
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/matchfit/backend/internal/activity"
	"github.com/matchfit/backend/internal/training"
)

// Store is the write surface needed to seed demo data.
type Store interface {
	CreatePlayer(displayName string) (*activity.Player, error)
	CreateExercise(ex *activity.Exercise) error
	AddSkillSnapshot(ss *activity.SkillSnapshot) error
}

// Seed creates a demo player with a plausible training history: a set of
// exercises, two skill snapshots three months apart, and a few weeks of
// sessions at varying hours. Sessions run through the normal completion
// workflow so streaks and achievements behave exactly as they would live.
func Seed(store Store, workflow *training.Workflow) (*activity.Player, error) {
	player, err := store.CreatePlayer("Demo Player")
	if err != nil {
		return nil, fmt.Errorf("seeding player: %w", err)
	}

	exercises := []*activity.Exercise{
		{PlayerID: player.ID, Name: "Cone Weave", Category: activity.CategoryTechnical, Description: "Dribble through a line of cones"},
		{PlayerID: player.ID, Name: "Wall Passes", Category: activity.CategoryTechnical, Description: "First-touch control off a rebound wall"},
		{PlayerID: player.ID, Name: "Shuttle Runs", Category: activity.CategoryPhysical, Description: "Repeated 20m sprints"},
		{PlayerID: player.ID, Name: "Box Jumps", Category: activity.CategoryPhysical, Description: "Explosive leg work"},
		{PlayerID: player.ID, Name: "Small-Sided Shape", Category: activity.CategoryTactical, Description: "3v3 positioning game"},
		{PlayerID: player.ID, Name: "Pressure Touches", Category: activity.CategoryTechnical, Description: "Custom drill: first touch under pressure"},
	}
	for _, ex := range exercises {
		if err := store.CreateExercise(ex); err != nil {
			return nil, fmt.Errorf("seeding exercise %q: %w", ex.Name, err)
		}
	}

	now := time.Now().UTC()
	baseline := &activity.SkillSnapshot{
		PlayerID: player.ID,
		TakenAt:  now.AddDate(0, -3, 0),
		Ratings: map[string]float64{
			activity.CategoryTechnical: 45,
			activity.CategoryPhysical:  52,
			activity.CategoryTactical:  40,
		},
	}
	current := &activity.SkillSnapshot{
		PlayerID: player.ID,
		TakenAt:  now.AddDate(0, 0, -1),
		Ratings: map[string]float64{
			activity.CategoryTechnical: 68,
			activity.CategoryPhysical:  60,
			activity.CategoryTactical:  49,
		},
	}
	if err := store.AddSkillSnapshot(baseline); err != nil {
		return nil, fmt.Errorf("seeding baseline snapshot: %w", err)
	}
	if err := store.AddSkillSnapshot(current); err != nil {
		return nil, fmt.Errorf("seeding current snapshot: %w", err)
	}

	// Deterministic history so repeated demo runs look the same.
	rng := rand.New(rand.NewSource(7))
	hours := []int{7, 9, 17, 18, 21}
	intensities := []string{"low", "medium", "high"}

	for daysAgo := 45; daysAgo >= 1; daysAgo-- {
		// Train roughly two days out of three.
		if rng.Intn(3) == 0 {
			continue
		}
		day := now.AddDate(0, 0, -daysAgo)
		startedAt := time.Date(day.Year(), day.Month(), day.Day(),
			hours[rng.Intn(len(hours))], 15, 0, 0, time.UTC)

		session := &activity.Session{
			StartedAt:       startedAt,
			DurationMinutes: float64(30 + rng.Intn(60)),
			Intensity:       intensities[rng.Intn(len(intensities))],
		}
		for _, idx := range rng.Perm(len(exercises))[:1+rng.Intn(3)] {
			session.Exercises = append(session.Exercises, activity.SessionExercise{
				ExerciseID: exercises[idx].ID,
				Rating:     1 + rng.Intn(5),
			})
		}

		if _, err := workflow.CompleteSession(player.ID, session); err != nil {
			return nil, fmt.Errorf("seeding session: %w", err)
		}
	}

	log.Printf("Seeded demo player %s", player.ID)
	return player, nil
}
