package main

import (
	"flag"
	"fmt"
	"os"

	"chosenoffset.com/spritewalk/internal/placeholders"
)

func main() {
	out := flag.String("o", "assets/sprite.png", "output path for the sprite sheet")
	tiles := flag.String("tiles", "assets/tiles.png", "output path for the tileset; empty skips it")
	flag.Parse()

	fmt.Println("Spritewalk Placeholder Sheet Generator")
	fmt.Println("======================================")
	fmt.Println()

	if err := placeholders.GenerateAndSave(*out); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%dx%d frames, %d per row)\n", *out, placeholders.FrameSize, placeholders.FrameSize, placeholders.Columns)

	if *tiles != "" {
		if err := placeholders.GenerateTilesetAndSave(*tiles); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %s (%dx%d tiles, %d per row)\n", *tiles, placeholders.FrameSize, placeholders.FrameSize, placeholders.TileColumns)
	}
	fmt.Println("Run the game to see the walker in action!")
}
