package cli

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/terraincognita07/bristol/internal/db"
	"github.com/terraincognita07/bristol/internal/models"
	"github.com/terraincognita07/bristol/internal/services"
)

var (
	entryTitleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#8B5E3C"))
	entryLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Width(10)
	entryBadgeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#4E8A5B")).Italic(true)
	entryCardStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#C9A27E")).Padding(0, 1)
)

// formFiller lets the user edit a composed form before it is saved.
type formFiller func(form *services.ComposerForm) error

// RunAddCommand opens the composer in the terminal for the given user. The
// duration is read from the shared timer when the entry is saved.
func RunAddCommand(dbPath string, email string, location *time.Location) error {
	database, err := db.OpenSQLite(dbPath)
	if err != nil {
		return fmt.Errorf("database init failed: %w", err)
	}
	repositories := db.NewRepositories(database)

	user, err := services.NewAuthService(repositories.Users).FindByEmail(email)
	if err != nil {
		return fmt.Errorf("user %s not found", strings.TrimSpace(email))
	}

	composer := services.NewEntryComposer(repositories.Entries, services.NewTimerService(repositories.Timers), location)
	entry, err := composeEntry(composer, user.ID, runComposerForm)
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, renderSavedEntry(entry, location))
	return nil
}

func composeEntry(composer *services.EntryComposer, userID uint, fill formFiller) (models.Entry, error) {
	params := services.ComposerParams{}
	form, err := composer.Compose(userID, params)
	if err != nil {
		return models.Entry{}, fmt.Errorf("read timer: %w", err)
	}
	if err := fill(&form); err != nil {
		return models.Entry{}, err
	}

	outcome, err := composer.Save(userID, params, form)
	switch {
	case errors.Is(err, services.ErrTimerResetFailed) && outcome.Entry != nil:
		log.Printf("entry %s saved but timer reset failed", outcome.Entry.ID)
	case err != nil:
		return models.Entry{}, fmt.Errorf("save entry: %w", err)
	}
	if outcome.Detoured() {
		return models.Entry{}, errors.New("photo entries need the web composer for analysis")
	}
	return *outcome.Entry, nil
}

func runComposerForm(form *services.ComposerForm) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&form.Name),
			huh.NewSelect[int]().
				Title("Type").
				Options(categoryOptions(models.EntryTypeOptions())...).
				Value(&form.Type),
			huh.NewSelect[int]().
				Title("Volume").
				Options(categoryOptions(models.EntryVolumeOptions())...).
				Value(&form.Volume),
			huh.NewSelect[int]().
				Title("Feeling").
				Options(categoryOptions(models.EntryFeelingOptions())...).
				Value(&form.Feeling),
			huh.NewSelect[int]().
				Title("Color").
				Options(categoryOptions(models.EntryColorOptions())...).
				Value(&form.Color),
		),
		huh.NewGroup(
			huh.NewNote().
				Title("Duration").
				Description(services.FormatDuration(form.Duration)+" from the timer"),
			huh.NewText().
				Title("Notes").
				Value(&form.Notes),
		),
	).Run()
}

func categoryOptions(options []models.CategoryOption) []huh.Option[int] {
	result := make([]huh.Option[int], 0, len(options))
	for _, option := range options {
		result = append(result, huh.NewOption(option.Icon+" "+option.Label, option.Value))
	}
	return result
}

func renderSavedEntry(entry models.Entry, location *time.Location) string {
	if location == nil {
		location = time.UTC
	}
	rows := []string{
		entryTitleStyle.Render(entry.Name),
		entryRow("Date", entry.Date.In(location).Format("2006-01-02 15:04")),
		entryRow("Type", categoryLabel(models.EntryTypeOptions(), entry.Type)),
		entryRow("Volume", categoryLabel(models.EntryVolumeOptions(), entry.Volume)),
		entryRow("Feeling", categoryLabel(models.EntryFeelingOptions(), entry.Feeling)),
		entryRow("Color", categoryLabel(models.EntryColorOptions(), entry.Color)),
		entryRow("Duration", services.FormatDuration(entry.Duration)),
	}
	if notes := strings.TrimSpace(entry.Notes); notes != "" {
		rows = append(rows, entryRow("Notes", notes))
	}
	if entry.AnalysisDetails != nil && *entry.AnalysisDetails != "" {
		rows = append(rows, entryBadgeStyle.Render("AI Analyzed"))
	}
	return entryCardStyle.Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func entryRow(label string, value string) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, entryLabelStyle.Render(label), value)
}

func categoryLabel(options []models.CategoryOption, value int) string {
	for _, option := range options {
		if option.Value == value {
			return option.Icon + " " + option.Label
		}
	}
	return strconv.Itoa(value)
}
