package main

import (
	"context"
	"fmt"

	"github.com/wailsapp/wails/v2/pkg/runtime"

	"reportforge/internal/services"
	"reportforge/internal/utils"
)

// App struct
type App struct {
	ctx       context.Context
	generator *services.GeneratorService
	dbClose   func() error
}

// NewApp creates a new App application struct
func NewApp() *App {
	return &App{}
}

// startup is called when the app starts. The context is saved
// so we can call the runtime methods
func (a *App) startup(ctx context.Context) {
	a.ctx = ctx
}

// shutdown is called when the app is closing. Clean up resources here.
func (a *App) shutdown(ctx context.Context) {
	// Stop any in-flight generation session
	if a.generator != nil {
		a.generator.CancelGeneration("")
	}

	// Close database connection pool
	if a.dbClose != nil {
		if err := a.dbClose(); err != nil {
			runtime.LogError(ctx, fmt.Sprintf("failed to close database: %v", err))
		} else {
			runtime.LogInfo(ctx, "database closed")
		}
		a.dbClose = nil
	}
}

// SaveReportToFile opens a native save dialog and writes the report text to
// the chosen path. Returns the path, or "" when the user cancels the dialog.
func (a *App) SaveReportToFile(report string) (string, error) {
	path, err := runtime.SaveFileDialog(a.ctx, runtime.SaveDialogOptions{
		Title:           "Save Report",
		DefaultFilename: "report.txt",
		Filters: []runtime.FileFilter{
			{DisplayName: "Text Files (*.txt;*.md)", Pattern: "*.txt;*.md"},
		},
	})
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", nil
	}
	if err := utils.WriteTextFile(path, report); err != nil {
		runtime.LogError(a.ctx, fmt.Sprintf("failed to save report: %v", err))
		return "", err
	}
	runtime.LogInfo(a.ctx, fmt.Sprintf("report saved to %s", path))
	return path, nil
}
