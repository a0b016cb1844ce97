package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/raymond0/osrm-backend/pkg/chbuild"
)

func main() {
	nodeIn := flag.String("node-in", "", "Path to the node file produced by osrm-extract")
	edgeIn := flag.String("edge-in", "", "Path to the edge file produced by osrm-extract")
	shardDir := flag.String("shard-dir", "shards", "Output directory for .hsgr shard files")
	nodesPerShard := flag.Uint("nodes-per-shard", 1_000_000, "Node-ID range covered by each shard")
	flag.Parse()

	if *nodeIn == "" || *edgeIn == "" {
		fmt.Fprintln(os.Stderr, "Usage: osrm-contract --node-in nodes.osrm --edge-in edges.osrm [--shard-dir shards]")
		os.Exit(1)
	}

	start := time.Now()

	numNodes, err := chbuild.NodeCount(*nodeIn)
	if err != nil {
		log.Fatalf("failed to read node count: %v", err)
	}
	log.Printf("graph has %d nodes", numNodes)

	g, err := chbuild.LoadGraph(*edgeIn, numNodes)
	if err != nil {
		log.Fatalf("failed to load edge graph: %v", err)
	}
	log.Printf("loaded %d directed edges (%s)", len(g.Edges), time.Since(start))

	result := chbuild.Contract(g)

	if err := os.MkdirAll(*shardDir, 0o755); err != nil {
		log.Fatalf("failed to create shard directory: %v", err)
	}
	if err := chbuild.BuildShards(result, uint32(*nodesPerShard), *shardDir); err != nil {
		log.Fatalf("failed to write shards: %v", err)
	}
	if err := chbuild.BuildCoordShards(*nodeIn, uint32(*nodesPerShard), *shardDir); err != nil {
		log.Fatalf("failed to write coordinate side-files: %v", err)
	}
	if err := chbuild.BuildGeomShards(g, uint32(*nodesPerShard), *shardDir); err != nil {
		log.Fatalf("failed to write geometry side-files: %v", err)
	}

	log.Printf("osrm-contract done in %s", time.Since(start).Round(time.Millisecond))
}
