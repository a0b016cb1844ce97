package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/raymond0/osrm-backend/pkg/boundary"
	"github.com/raymond0/osrm-backend/pkg/density"
	"github.com/raymond0/osrm-backend/pkg/extract"
)

func main() {
	input := flag.String("input", "", "Path to .osm.pbf file")
	nodeOut := flag.String("node-out", "nodes.osrm", "Output node file path")
	edgeOut := flag.String("edge-out", "edges.osrm", "Output edge file path")
	restrictOut := flag.String("restrict-out", "edges.osrm.restrictions", "Output restrictions file path")
	nameOut := flag.String("name-out", "", "Output name pool file path (optional)")
	boundaryFile := flag.String("boundary", "", "Administrative boundary file for in-town classification (optional)")
	scratchDir := flag.String("scratch-dir", "", "Directory for mmap-backed scratch files")
	luaProfile := flag.String("profile", "", "Path to a Lua ProcessSegment profile script (optional)")
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: osrm-extract --input <file.osm.pbf> [--node-out nodes.osrm] [--edge-out edges.osrm]")
		os.Exit(1)
	}

	start := time.Now()

	f, err := os.Open(*input)
	if err != nil {
		log.Fatalf("failed to open input file: %v", err)
	}
	defer f.Close()

	opts := extract.Options{
		ReadOptions: extract.ReadOptions{ScratchDir: *scratchDir},
		NodeOutPath: *nodeOut,
		EdgeOutPath: *edgeOut,
		RestrictOut: *restrictOut,
		NameOutPath: *nameOut,
	}

	if *boundaryFile != "" {
		bf, err := os.Open(*boundaryFile)
		if err != nil {
			log.Fatalf("failed to open boundary file: %v", err)
		}
		bl, err := boundary.ParseBoundaryList(bf)
		bf.Close()
		if err != nil {
			log.Fatalf("failed to parse boundaries: %v", err)
		}
		opts.Classifier = density.New(bl)
		log.Printf("loaded %d country boundaries for in-town classification", len(bl.Countries))
	}

	if *luaProfile != "" {
		src, err := os.ReadFile(*luaProfile)
		if err != nil {
			log.Fatalf("failed to read profile script: %v", err)
		}
		profile, err := extract.LoadProfile(string(src))
		if err != nil {
			log.Fatalf("failed to load profile script: %v", err)
		}
		defer profile.Close()
		opts.Profile = profile
	}

	if err := extract.Run(context.Background(), f, opts); err != nil {
		log.Fatalf("extraction failed: %v", err)
	}

	log.Printf("osrm-extract done in %s", time.Since(start).Round(time.Millisecond))
}
