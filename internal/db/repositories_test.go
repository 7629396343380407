package db

import (
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/terraincognita07/bristol/internal/models"
)

func TestEntryRepositoryScopesEntriesToOwner(t *testing.T) {
	repos := newTestRepositories(t)
	owner := createTestUser(t, repos, "owner@example.com")
	other := createTestUser(t, repos, "other@example.com")

	base := time.Date(2026, time.March, 4, 8, 0, 0, 0, time.UTC)
	for index, userID := range []uint{owner.ID, owner.ID, other.ID} {
		entry := &models.Entry{
			ID:      strconv.Itoa(index + 1),
			UserID:  userID,
			Date:    base.Add(time.Duration(index) * time.Hour),
			Name:    "Morning Poop",
			Type:    models.DefaultEntryType,
			Volume:  models.DefaultEntryVolume,
			Feeling: models.DefaultEntryFeeling,
			Color:   models.DefaultEntryColor,
		}
		if err := repos.Entries.AddEntry(entry); err != nil {
			t.Fatalf("add entry %d: %v", index, err)
		}
	}

	entries, err := repos.Entries.ListByUser(owner.ID)
	if err != nil {
		t.Fatalf("list entries: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 owner entries, got %d", len(entries))
	}
	if !entries[0].Date.After(entries[1].Date) {
		t.Fatalf("expected newest entry first, got %v then %v", entries[0].Date, entries[1].Date)
	}

	if _, found, err := repos.Entries.FindByUserAndID(owner.ID, entries[0].ID); err != nil || !found {
		t.Fatalf("expected owner entry to be found, found=%v err=%v", found, err)
	}

	otherEntries, err := repos.Entries.ListByUser(other.ID)
	if err != nil || len(otherEntries) != 1 {
		t.Fatalf("expected one entry for other user, got %d err=%v", len(otherEntries), err)
	}
	if _, found, err := repos.Entries.FindByUserAndID(owner.ID, otherEntries[0].ID); err != nil || found {
		t.Fatalf("expected foreign entry to stay hidden, found=%v err=%v", found, err)
	}

	deleted, err := repos.Entries.DeleteByUserAndID(owner.ID, otherEntries[0].ID)
	if err != nil {
		t.Fatalf("delete foreign entry: %v", err)
	}
	if deleted {
		t.Fatal("expected delete of foreign entry to report false")
	}
}

func TestEntryRepositoryListByUserRange(t *testing.T) {
	repos := newTestRepositories(t)
	user := createTestUser(t, repos, "range@example.com")

	days := []time.Time{
		time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC),
		time.Date(2026, time.February, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2026, time.February, 3, 10, 0, 0, 0, time.UTC),
	}
	for index, day := range days {
		entry := &models.Entry{ID: day.Format("20060102"), UserID: user.ID, Date: day, Name: "Morning Poop", Type: 4 + index, Volume: 2, Feeling: 1, Color: 1}
		if err := repos.Entries.AddEntry(entry); err != nil {
			t.Fatalf("add entry: %v", err)
		}
	}

	from := time.Date(2026, time.February, 2, 0, 0, 0, 0, time.UTC)
	entries, err := repos.Entries.ListByUserRange(user.ID, &from, nil)
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != "20260202" {
		t.Fatalf("expected two entries starting at 2026-02-02, got %#v", entries)
	}
}

func TestEntryRepositoryRangeComparesInstantsAcrossZones(t *testing.T) {
	repos := newTestRepositories(t)
	user := createTestUser(t, repos, "zones@example.com")

	stored := time.Date(2026, time.February, 1, 10, 0, 0, 0, time.UTC)
	if err := repos.Entries.AddEntry(&models.Entry{ID: "1", UserID: user.ID, Date: stored, Name: "Morning Poop", Type: 4, Volume: 2, Feeling: 1, Color: 1}); err != nil {
		t.Fatalf("add entry: %v", err)
	}

	moscow := time.FixedZone("MSK", 3*60*60)
	from := time.Date(2026, time.February, 1, 12, 0, 0, 0, moscow)
	entries, err := repos.Entries.ListByUserRange(user.ID, &from, nil)
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 10:00 UTC to fall after 12:00+03:00, got %d entries", len(entries))
	}
}

func TestEntryRepositoryKeepsOptionalFields(t *testing.T) {
	repos := newTestRepositories(t)
	user := createTestUser(t, repos, "optional@example.com")

	imageURI := "/photos/users/1/2026/03/photo.jpg"
	details := "Type 4, healthy"
	entry := &models.Entry{
		ID:              "1700000000000",
		UserID:          user.ID,
		Date:            time.Now().UTC(),
		Name:            "Evening Poop",
		Type:            4,
		Volume:          2,
		Feeling:         1,
		Color:           1,
		Duration:        95,
		Notes:           "AI Analysis: Type 4, healthy\n\n",
		ImageURI:        &imageURI,
		AnalysisDetails: &details,
	}
	if err := repos.Entries.AddEntry(entry); err != nil {
		t.Fatalf("add entry: %v", err)
	}

	stored, found, err := repos.Entries.FindByUserAndID(user.ID, entry.ID)
	if err != nil || !found {
		t.Fatalf("expected stored entry, found=%v err=%v", found, err)
	}
	if stored.ImageURI == nil || *stored.ImageURI != imageURI {
		t.Fatalf("expected image uri %q, got %v", imageURI, stored.ImageURI)
	}
	if stored.AnalysisDetails == nil || *stored.AnalysisDetails != details {
		t.Fatalf("expected analysis details %q, got %v", details, stored.AnalysisDetails)
	}
	if stored.Recommendations != nil {
		t.Fatalf("expected nil recommendations, got %q", *stored.Recommendations)
	}
	if stored.Duration != 95 {
		t.Fatalf("expected duration 95, got %d", stored.Duration)
	}

	if err := repos.Entries.AddEntry(&models.Entry{ID: entry.ID, UserID: user.ID, Date: time.Now(), Name: "dup", Type: 4, Volume: 2, Feeling: 1, Color: 1}); err == nil {
		t.Fatal("expected duplicate entry id to be rejected")
	}
}

func TestEntryRepositoryAllowsSameIDForDifferentUsers(t *testing.T) {
	repos := newTestRepositories(t)
	first := createTestUser(t, repos, "first@example.com")
	second := createTestUser(t, repos, "second@example.com")

	for _, userID := range []uint{first.ID, second.ID} {
		entry := &models.Entry{ID: "1741075200000", UserID: userID, Date: time.Now().UTC(), Name: "Morning Poop", Type: 4, Volume: 2, Feeling: 1, Color: 1}
		if err := repos.Entries.AddEntry(entry); err != nil {
			t.Fatalf("add entry for user %d: %v", userID, err)
		}
	}

	deleted, err := repos.Entries.DeleteByUserAndID(first.ID, "1741075200000")
	if err != nil || !deleted {
		t.Fatalf("expected first user's entry to be deleted, deleted=%v err=%v", deleted, err)
	}
	if _, found, err := repos.Entries.FindByUserAndID(second.ID, "1741075200000"); err != nil || !found {
		t.Fatalf("expected second user's entry to survive, found=%v err=%v", found, err)
	}
}

func TestTimerRepositoryUpsertAndDelete(t *testing.T) {
	repos := newTestRepositories(t)
	user := createTestUser(t, repos, "timer@example.com")

	timer, found, err := repos.Timers.FindByUser(user.ID)
	if err != nil {
		t.Fatalf("find timer: %v", err)
	}
	if found || timer.UserID != user.ID || timer.Running() {
		t.Fatalf("expected idle zero timer for new user, got %#v found=%v", timer, found)
	}

	startedAt := time.Date(2026, time.March, 1, 7, 0, 0, 0, time.UTC)
	timer.StartedAt = &startedAt
	if err := repos.Timers.Upsert(&timer); err != nil {
		t.Fatalf("insert timer: %v", err)
	}

	timer.StartedAt = nil
	timer.ElapsedSeconds = 42
	if err := repos.Timers.Upsert(&timer); err != nil {
		t.Fatalf("update timer: %v", err)
	}

	stored, found, err := repos.Timers.FindByUser(user.ID)
	if err != nil || !found {
		t.Fatalf("expected stored timer, found=%v err=%v", found, err)
	}
	if stored.Running() || stored.ElapsedSeconds != 42 {
		t.Fatalf("expected stopped timer with 42s, got %#v", stored)
	}

	if err := repos.Timers.DeleteByUser(user.ID); err != nil {
		t.Fatalf("delete timer: %v", err)
	}
	if _, found, err := repos.Timers.FindByUser(user.ID); err != nil || found {
		t.Fatalf("expected timer row to be gone, found=%v err=%v", found, err)
	}
}

func TestUserRepositoryNormalizedEmailLookup(t *testing.T) {
	repos := newTestRepositories(t)
	createTestUser(t, repos, "Mixed@Example.com")

	exists, err := repos.Users.ExistsByNormalizedEmail("mixed@example.com")
	if err != nil {
		t.Fatalf("exists lookup: %v", err)
	}
	if !exists {
		t.Fatal("expected normalized lookup to match mixed-case email")
	}

	duplicate := &models.User{Email: "mixed@example.com", PasswordHash: "hash", CreatedAt: time.Now()}
	if err := repos.Users.Create(duplicate); err == nil {
		t.Fatal("expected normalized email index to reject duplicate")
	}
}

func newTestRepositories(t *testing.T) *Repositories {
	t.Helper()
	return NewRepositories(openTestDatabase(t, filepath.Join(t.TempDir(), "bristol.db")))
}

func createTestUser(t *testing.T, repos *Repositories, email string) models.User {
	t.Helper()

	user := models.User{Email: email, PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	if err := repos.Users.Create(&user); err != nil {
		t.Fatalf("create user %s: %v", email, err)
	}
	return user
}
