// Command rotframe transforms phase-space samples between a static inertial
// frame and a constantly rotating frame.
//
//	rotframe -config frame.json -input orbit.csv -output rotating.csv
//	rotframe -input snapshot.csv -t 0,10,20 -direction inverse -png out.png
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/banshee-data/rotframe/internal/config"
	"github.com/banshee-data/rotframe/internal/version"
)

func main() {
	var o options
	flag.StringVar(&o.configPath, "config", config.DefaultConfigPath, "Path to frame config JSON")
	flag.StringVar(&o.inputPath, "input", "", "Input CSV (t,x,y[,z],vx,vy[,vz]); stdin when empty")
	flag.StringVar(&o.outputPath, "output", "", "Output CSV; stdout when empty")
	flag.StringVar(&o.times, "t", "", "Comma-separated times overriding the input's own, in the config time unit")
	flag.StringVar(&o.direction, "direction", "", "forward (static to rotating) or inverse; overrides config")
	flag.IntVar(&o.workers, "workers", 0, "Rotation workers; overrides config when > 0")
	flag.StringVar(&o.dbPath, "db", "", "SQLite orbit store; input and result are saved when set")
	flag.StringVar(&o.pngPath, "png", "", "Write an x/y trajectory plot to this PNG")
	flag.StringVar(&o.htmlPath, "html", "", "Write an x/y trajectory chart to this HTML file")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String())
		return
	}

	if err := run(context.Background(), o, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("rotframe: %v", err)
	}
}
