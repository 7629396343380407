package cli

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/terraincognita07/bristol/internal/db"
	"github.com/terraincognita07/bristol/internal/models"
	"github.com/terraincognita07/bristol/internal/services"
)

func TestComposeEntryAbsorbsTimerAndSaves(t *testing.T) {
	database := openCLITestDatabase(t)
	user := createCLITestUser(t, database, "add@example.com")
	repositories := db.NewRepositories(database)

	if err := repositories.Timers.Upsert(&models.Timer{UserID: user.ID, ElapsedSeconds: 75, UpdatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("seed timer: %v", err)
	}

	composer := services.NewEntryComposer(repositories.Entries, services.NewTimerService(repositories.Timers), time.UTC)
	var seenDuration int
	entry, err := composeEntry(composer, user.ID, func(form *services.ComposerForm) error {
		seenDuration = form.Duration
		form.Name = "Terminal Poop"
		form.Type = 3
		form.Notes = "from the shell"
		return nil
	})
	if err != nil {
		t.Fatalf("composeEntry() unexpected error: %v", err)
	}

	if seenDuration != 75 {
		t.Fatalf("expected the form to open with the timer value, got %d", seenDuration)
	}
	if entry.Name != "Terminal Poop" || entry.Type != 3 || entry.Duration != 75 || entry.Volume != models.DefaultEntryVolume {
		t.Fatalf("unexpected entry %#v", entry)
	}

	stored, found, err := repositories.Entries.FindByUserAndID(user.ID, entry.ID)
	if err != nil || !found {
		t.Fatalf("expected entry to be stored, found=%v err=%v", found, err)
	}
	if stored.Notes != "from the shell" {
		t.Fatalf("unexpected stored notes %q", stored.Notes)
	}
	if _, found, err := repositories.Timers.FindByUser(user.ID); err != nil || found {
		t.Fatalf("expected timer to be reset, found=%v err=%v", found, err)
	}
}

func TestComposeEntryStopsWhenFormAborted(t *testing.T) {
	database := openCLITestDatabase(t)
	user := createCLITestUser(t, database, "abort@example.com")
	repositories := db.NewRepositories(database)
	composer := services.NewEntryComposer(repositories.Entries, services.NewTimerService(repositories.Timers), time.UTC)

	aborted := errors.New("user aborted")
	if _, err := composeEntry(composer, user.ID, func(*services.ComposerForm) error { return aborted }); !errors.Is(err, aborted) {
		t.Fatalf("expected abort error, got %v", err)
	}

	entries, err := repositories.Entries.ListByUser(user.ID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected no entries, got %d", len(entries))
	}
}

func TestComposeEntryReadsTimerWhenSaving(t *testing.T) {
	database := openCLITestDatabase(t)
	user := createCLITestUser(t, database, "late-timer@example.com")
	repositories := db.NewRepositories(database)

	if err := repositories.Timers.Upsert(&models.Timer{UserID: user.ID, ElapsedSeconds: 30, UpdatedAt: time.Now().UTC()}); err != nil {
		t.Fatalf("seed timer: %v", err)
	}

	composer := services.NewEntryComposer(repositories.Entries, services.NewTimerService(repositories.Timers), time.UTC)
	entry, err := composeEntry(composer, user.ID, func(form *services.ComposerForm) error {
		form.Duration = 5
		return repositories.Timers.Upsert(&models.Timer{UserID: user.ID, ElapsedSeconds: 150, UpdatedAt: time.Now().UTC()})
	})
	if err != nil {
		t.Fatalf("composeEntry() unexpected error: %v", err)
	}
	if entry.Duration != 150 {
		t.Fatalf("expected duration from the timer at save time, got %d", entry.Duration)
	}
}

func TestRenderSavedEntry(t *testing.T) {
	details := "Type 4 stool"
	rendered := renderSavedEntry(models.Entry{
		Name:            "Morning Poop",
		Date:            time.Date(2026, time.April, 10, 8, 30, 0, 0, time.UTC),
		Type:            4,
		Volume:          2,
		Feeling:         1,
		Color:           1,
		Duration:        95,
		AnalysisDetails: &details,
	}, time.UTC)

	for _, expected := range []string{"Morning Poop", "2026-04-10 08:30", "Smooth, soft sausage", "Medium", "Easy", "Brown", "1m 35s", "AI Analyzed"} {
		if !strings.Contains(rendered, expected) {
			t.Fatalf("expected %q in rendered entry:\n%s", expected, rendered)
		}
	}
}
