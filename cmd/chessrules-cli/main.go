package main

import (
	"flag"
	"log"
	"os"
	"runtime/pprof"

	"github.com/hailam/chessrules/internal/console"
)

var (
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
	fen        = flag.String("fen", "", "start from this FEN position")
	load       = flag.String("load", "", "start from this serialized board")
)

func main() {
	flag.Parse()

	// Start CPU profiling if requested (via flag or environment variable)
	profilePath := *cpuprofile
	if profilePath == "" {
		profilePath = os.Getenv("CPUPROFILE")
	}
	if profilePath != "" {
		f, err := os.Create(profilePath)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
		defer pprof.StopCPUProfile()
		log.Printf("CPU profiling enabled, writing to %s", profilePath)
	}

	c := console.New(os.Stdout)
	switch {
	case *fen != "":
		if err := c.Execute("fen", []string{*fen}); err != nil {
			log.Fatalf("invalid FEN: %v", err)
		}
	case *load != "":
		if err := c.Execute("load", []string{*load}); err != nil {
			log.Fatalf("invalid board: %v", err)
		}
	}

	if err := c.Run(os.Stdin); err != nil {
		log.Printf("read input: %v", err)
	}
}
