package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"manifestgen/generator"
	"manifestgen/integration"
)

func main() {
	// Parse command line flags
	configFile := flag.String("config", "", "Path to JSON configuration file")
	scenarioFile := flag.String("scenario", "", "Path to YAML scenario file (overrides -config)")
	numEntries := flag.Int("entries", 1000, "Number of manifest entries to generate")
	batchSize := flag.Int("batch", 100, "Entries per manifest summary batch")
	seed := flag.Int64("seed", 0, "Random seed override (0 = keep config value)")
	outputFile := flag.String("output", "", "Path to output JSON file (optional, prints to stdout if not specified)")
	verbose := flag.Bool("verbose", false, "Enable verbose logging from generator")
	flag.Parse()

	if *scenarioFile != "" {
		runScenario(*scenarioFile, *outputFile)
		return
	}

	config := generator.DefaultConfig()
	if *configFile != "" {
		configData, err := os.ReadFile(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error reading config file: %v\n", err)
			os.Exit(1)
		}
		if err := json.Unmarshal(configData, &config); err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing config JSON: %v\n", err)
			os.Exit(1)
		}
	}

	if *seed != 0 {
		config.RandomSeed = *seed
	}

	if err := config.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if *numEntries < 1 || *batchSize < 1 {
		fmt.Fprintf(os.Stderr, "entries and batch must be >= 1\n")
		os.Exit(1)
	}

	gen, err := generator.NewGenerator(config)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating generator: %v\n", err)
		os.Exit(1)
	}

	if *verbose {
		gen.LogEvent = func(msg string) {
			fmt.Fprintf(os.Stderr, "[GEN] %s\n", msg)
		}
		fmt.Fprintf(os.Stderr, "Verbose logging enabled\n")
	}

	fmt.Fprintf(os.Stderr, "Generating %d manifest entries...\n", *numEntries)
	startTime := time.Now()

	entries := make([]generator.ManifestEntry, 0, *numEntries)
	for len(entries) < *numEntries {
		entries = append(entries, gen.Next())
		// Finish the generation step so the stream stays self-consistent
		for gen.Buffered() > 0 {
			entries = append(entries, gen.Next())
		}
	}

	metas := make([]generator.ManifestFileMeta, 0, len(entries)/(*batchSize)+1)
	for start := 0; start < len(entries); start += *batchSize {
		end := start + *batchSize
		if end > len(entries) {
			end = len(entries)
		}
		meta, err := gen.CreateFileMeta(entries[start:end])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error summarizing batch at %d: %v\n", start, err)
			os.Exit(1)
		}
		metas = append(metas, meta)
	}

	elapsed := time.Since(startTime)
	fmt.Fprintf(os.Stderr, "Generated %d entries in %v\n", len(entries), elapsed)

	results := map[string]interface{}{
		"config":   config,
		"entries":  entries,
		"metas":    metas,
		"metrics":  gen.Metrics(),
		"state":    gen.State(),
		"realTime": elapsed.Seconds(),
	}

	writeResults(results, *outputFile)
}

func runScenario(path, outputFile string) {
	scenario, err := integration.LoadScenario(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading scenario: %v\n", err)
		os.Exit(1)
	}

	result, err := integration.RunScenario(scenario)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running scenario: %v\n", err)
		os.Exit(1)
	}

	if len(result.Violations) > 0 {
		fmt.Fprintf(os.Stderr, "Scenario %s produced an inconsistent stream:\n  %s\n",
			scenario.Name, strings.Join(result.Violations, "\n  "))
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "Scenario %s: %d entries, %d summaries\n",
		scenario.Name, len(result.Entries), len(result.Metas))
	writeResults(result, outputFile)
}

func writeResults(results interface{}, outputFile string) {
	output, err := json.MarshalIndent(results, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error marshaling results: %v\n", err)
		os.Exit(1)
	}

	if outputFile != "" {
		if err := os.WriteFile(outputFile, output, 0644); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing output file: %v\n", err)
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Results written to %s\n", outputFile)
	} else {
		fmt.Println(string(output))
	}
}
