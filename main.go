package main

import (
	"context"
	"embed"
	"fmt"
	"os"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
	"gorm.io/gorm/logger"

	"aiteam/internal/config"
	"aiteam/internal/database"
	"aiteam/internal/events"
	"aiteam/internal/logging"
	"aiteam/internal/metrics"
	"aiteam/internal/services"
)

//go:embed all:frontend/dist
var assets embed.FS

func main() {
	log := logging.New("aiteam", os.Getenv("AITEAM_LOG_LEVEL"))

	cfg, err := config.Load(log)
	if err != nil {
		fmt.Println("Error loading configuration:", err)
		os.Exit(1)
	}
	log = logging.New("aiteam", cfg.LogLevel)

	db, err := database.Init(database.Config{
		Path:     cfg.DBPath,
		LogLevel: logger.Warn,
		Logger:   log,
	})
	if err != nil {
		fmt.Println("Error opening database:", err)
		os.Exit(1)
	}

	svc, err := services.New(services.Deps{
		Config:  cfg,
		DB:      db,
		Log:     log,
		Metrics: metrics.New(),
	})
	if err != nil {
		fmt.Println("Error creating services:", err)
		os.Exit(1)
	}

	app := NewApp(svc, log)
	if sqlDB, err := db.DB(); err == nil {
		app.dbClose = sqlDB.Close
	}

	// Create application with options
	err = wails.Run(&options.App{
		Title:  "AI Team",
		Width:  1280,
		Height: 800,
		AssetServer: &assetserver.Options{
			Assets: assets,
		},
		Linux: &linux.Options{
			WindowIsTranslucent: false,
			WebviewGpuPolicy:    linux.WebviewGpuPolicyAlways,
			ProgramName:         "AI Team",
		},
		BackgroundColour: &options.RGBA{R: 17, G: 24, B: 39, A: 1},
		Logger:           logging.NewWailsLogger(log),
		OnStartup: func(ctx context.Context) {
			events.EnableRuntimeEmitter()
			app.startup(ctx)
		},
		OnShutdown: app.shutdown,
		Bind: []interface{}{
			app,
		},
	})

	if err != nil {
		println("Error:", err.Error())
	}
}
