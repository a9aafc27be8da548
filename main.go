package main

import (
	"context"
	"embed"
	"fmt"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"gorm.io/gorm/logger"

	"reportforge/internal/database"
	"reportforge/internal/events"
	"reportforge/internal/services"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {

	app := NewApp()

	db, err := database.Init(database.Config{
		LogLevel: logger.Info,
	})
	if err != nil {
		fmt.Println("Error opening database:", err)
		return
	}

	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	//Create each service
	keyringService := services.NewKeyringService()
	dbService := services.NewDbServices(db)
	generatorService := services.NewGeneratorService(dbService.History, dbService.AppSettings, keyringService)
	app.generator = generatorService

	// Create application with options
	err = wails.Run(&options.App{
		Title:  "ReportForge",
		Width:  1024,
		Height: 768,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "ReportForge",
		},
		BackgroundColour: &options.RGBA{R: 27, G: 38, B: 54, A: 1},
		OnStartup: func(ctx context.Context) {
			app.startup(ctx)
			events.EnableRuntimeEmitter()
			dbService.StartDbServices(ctx)
			keyringService.Startup()

			if err := generatorService.Startup(ctx); err != nil {
				fmt.Println("Error starting generator service:", err)
			}
		},
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
			dbService.Templates,
			dbService.History,
			dbService.AppSettings,
			generatorService,
			keyringService,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
