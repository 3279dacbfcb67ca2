package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/MilBia/Suchar-Overflow/internal/app"
	"github.com/MilBia/Suchar-Overflow/internal/seed"
)

func main() {
	var file string
	flag.StringVar(&file, "file", "seed/achievements.yaml", "path to the achievement fixture")
	flag.Parse()

	defs, err := seed.Load(file)
	if err != nil {
		fmt.Printf("load fixture: %v\n", err)
		os.Exit(1)
	}

	application, err := app.New()
	if err != nil {
		fmt.Printf("init app: %v\n", err)
		os.Exit(1)
	}
	defer application.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := seed.Apply(ctx, application.Repos.Achievement, application.Services.Registry, defs); err != nil {
		fmt.Printf("apply fixture: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("seeded %d achievement definitions from %s\n", len(defs), file)
}
