package main

import (
	"fmt"
	"os"
	"runtime/pprof"
	"strconv"

	"github.com/lukaszgryglicki/flames/internal/flames"
)

func main() {
	flames.Debug = os.Getenv("DEBUG") != ""
	flames.Progress = os.Getenv("PROGRESS") != ""
	if s := os.Getenv("WORKERS"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			fmt.Printf("Error: WORKERS: %v\n", err)
			os.Exit(1)
		}
		flames.Workers = n
	}
	if s := os.Getenv("SEED"); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			fmt.Printf("Error: SEED: %v\n", err)
			os.Exit(1)
		}
		flames.Seed = &seed
	}
	profile := os.Getenv("PROFILE") != ""
	if profile {
		f, err := os.Create("cpu.out")
		if err != nil {
			panic(err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			panic(err)
		}
		defer func() {
			pprof.StopCPUProfile()
			_ = f.Close()
		}()
	}

	cfg := "flames/config.json"
	if len(os.Args) > 1 {
		cfg = os.Args[1]
	}
	if err := flames.Run(cfg); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}
