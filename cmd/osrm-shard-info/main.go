package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/raymond0/osrm-backend/pkg/chfacade"
	"github.com/raymond0/osrm-backend/pkg/chshard"
	"github.com/raymond0/osrm-backend/pkg/unpack"
)

func main() {
	hsgr := flag.String("hsgr", "", "Comma-separated list of .hsgr shard files")
	coords := flag.String("coords", "", "Comma-separated list of coordinate side-files")
	geoms := flag.String("geoms", "", "Comma-separated list of geometry side-files")
	node := flag.Int64("node", -1, "Print the adjacency list and coordinate of this node")
	unpackPath := flag.String("unpack-path", "", "Comma-separated node list to unpack into original edges")
	flag.Parse()

	if *hsgr == "" {
		fmt.Fprintln(os.Stderr, "Usage: osrm-shard-info --hsgr shard-0.hsgr[,shard-1000000.hsgr,...] [--coords ...] [--geoms ...] [--node N] [--unpack-path N1,N2,...]")
		os.Exit(1)
	}

	f, err := chfacade.Open(splitNonEmpty(*hsgr), splitNonEmpty(*coords), splitNonEmpty(*geoms))
	if err != nil {
		log.Fatalf("failed to open facade: %v", err)
	}
	defer f.Close()

	if *node >= 0 {
		n := chshard.NID(*node)
		edges, err := f.AdjacentEdges(n)
		if err != nil {
			log.Fatalf("node %d: %v", n, err)
		}
		fmt.Printf("node %d: %d adjacent edges\n", n, len(edges))
		for _, e := range edges {
			fmt.Printf("  -> %d weight=%d forward=%v backward=%v shortcut=%v\n", e.Target, e.Weight, e.Forward, e.Backward, e.Shortcut)
		}
		if c, err := f.GetCoordinateOfNode(n); err == nil {
			fmt.Printf("node %d coordinate: lon=%d lat=%d\n", n, c.Lon, c.Lat)
		}
	}

	if *unpackPath != "" {
		path, err := parseNIDList(*unpackPath)
		if err != nil {
			log.Fatalf("bad --unpack-path: %v", err)
		}
		err = unpack.Unpack(f, path, func(from, to chshard.NID, edge chshard.Edge) error {
			fmt.Printf("  %d -> %d weight=%d\n", from, to, edge.Weight)
			return nil
		})
		if err != nil {
			log.Fatalf("unpack failed: %v", err)
		}
	}
}

func splitNonEmpty(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func parseNIDList(s string) ([]chshard.NID, error) {
	parts := strings.Split(s, ",")
	out := make([]chshard.NID, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 32)
		if err != nil {
			return nil, err
		}
		out = append(out, chshard.NID(v))
	}
	return out, nil
}
