package ui

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/huh"
)

// sanitizeInput removes null bytes and other invisible control characters from input
func sanitizeInput(s string) string {
	return strings.Map(func(r rune) rune {
		// Keep printable characters and normal whitespace (space, tab, newline)
		if r == 0 || (r < 32 && r != '\t' && r != '\n' && r != '\r') {
			return -1
		}
		return r
	}, s)
}

// validateReportPath checks that s names a readable regular file
func validateReportPath(s string) error {
	s = strings.TrimSpace(sanitizeInput(s))
	if s == "" {
		return fmt.Errorf("path cannot be empty")
	}
	info, err := os.Stat(s)
	if err != nil {
		return fmt.Errorf("cannot read %s", s)
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", s)
	}
	return nil
}

// ReportNameFromPath derives a report name from a file path: the base name
// without its extension.
func ReportNameFromPath(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// PromptForReportPath asks for a report JSON file to load
func PromptForReportPath() (string, error) {
	var path string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Open Report").
				Description("Path to a psi-map JSON report or PageSpeed API response").
				Placeholder("results.json").
				Value(&path).
				Validate(validateReportPath),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}

	return strings.TrimSpace(sanitizeInput(path)), nil
}

// PromptForReportName asks for the name to store a report under
func PromptForReportName(defaultName string) (string, error) {
	var name string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Report Name").
				Description("Stored reports are opened with: psiview browse --report NAME").
				Placeholder(defaultName).
				Value(&name),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return "", fmt.Errorf("prompt cancelled: %w", err)
	}

	name = strings.TrimSpace(sanitizeInput(name))
	if name == "" {
		name = defaultName
	}
	return name, nil
}

// ConfirmReplace asks before overwriting a stored report
func ConfirmReplace(name string) (bool, error) {
	var confirm bool

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Replace report %q?", name)).
				Description("The stored records will be deleted and re-imported").
				Affirmative("Yes, replace").
				Negative("Cancel").
				Value(&confirm),
		),
	).WithTheme(NewAppTheme())

	if err := form.Run(); err != nil {
		return false, err
	}

	return confirm, nil
}
