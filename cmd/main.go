package main

import (
	"fmt"
	"os"

	"github.com/MilBia/Suchar-Overflow/internal/app"
	"github.com/MilBia/Suchar-Overflow/internal/utils"
)

func main() {
	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	if err := application.Start(); err != nil {
		application.Log.Error("Could not start periodic scheduler", "error", err)
		os.Exit(1)
	}

	port := utils.GetEnv("PORT", "8080", application.Log)
	fmt.Printf("Server listening on :%s\n", port)
	if err := application.Run(":" + port); err != nil {
		application.Log.Warn("Server failed", "error", err)
	}
}
