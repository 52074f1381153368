// Package main provides the scan-text command line runner: extract text from
// one image or from every image in a folder.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/Timmyway/scan-text/internal/batch"
	"github.com/Timmyway/scan-text/internal/sink"
	"github.com/Timmyway/scan-text/pkg/document"
	"github.com/Timmyway/scan-text/pkg/extractor"
	"github.com/Timmyway/scan-text/pkg/logging"
	"github.com/Timmyway/scan-text/pkg/preprocess"
)

func main() {
	var (
		inputDir  = flag.String("in", "", "folder of images to process")
		file      = flag.String("file", "", "single image to process instead of a folder")
		outputDir = flag.String("out", "ocr_results", "output directory for extracted text")
		modeName  = flag.String("preprocess", "none", "preprocess mode: none, thresh or blur")
		lang      = flag.String("lang", getEnv("OCR_LANGUAGE", "eng"), "tesseract language code")
		tessdata  = flag.String("tessdata", getEnv("TESSDATA_PREFIX", ""), "tessdata prefix override")
		parallel  = flag.Bool("parallel", true, "process folder entries concurrently")
		combine   = flag.Bool("combine", false, "write one combined file instead of one per image")
		strict    = flag.Bool("strict", false, "fail the combine when no text was extracted at all")
		clean     = flag.Bool("clean", false, "normalize whitespace and OCR artifacts in the output")
		gitRepo   = flag.String("git", "", "commit results into this git repository instead of plain files")
		logLevel  = flag.String("log-level", "info", "log level")
	)
	flag.Parse()

	logConfig := logging.DefaultLogConfig()
	logConfig.Level = *logLevel
	logConfig.Format = "pretty"
	if err := logging.SetupLogger(logConfig); err != nil {
		fmt.Fprintf(os.Stderr, "logging setup: %v\n", err)
		os.Exit(1)
	}

	mode, err := preprocess.ParseMode(*modeName)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid preprocess mode")
	}

	cfg := extractor.Config{Language: *lang, TessdataPrefix: *tessdata}
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid OCR configuration")
	}
	engine := extractor.NewEngine(cfg)

	var resultSink sink.Sink = sink.NewFileSink()
	if *gitRepo != "" {
		gitSink, err := sink.NewGitSink(*gitRepo)
		if err != nil {
			log.Fatal().Err(err).Str("repo", *gitRepo).Msg("Failed to open results repository")
		}
		resultSink = gitSink
	}

	ctx := context.Background()

	switch {
	case *file != "":
		runSingle(ctx, engine, *file, mode, *outputDir)
	case *inputDir != "":
		runner := batch.NewRunner(engine, resultSink)
		report, err := runner.Run(ctx, batch.Options{
			InputDir:  *inputDir,
			OutputDir: *outputDir,
			Mode:      mode,
			Parallel:  *parallel,
			Combine:   *combine,
			Strict:    *strict,
			Clean:     *clean,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Batch run failed")
		}
		for _, path := range report.WrittenPaths {
			fmt.Println(path)
		}
		log.Info().Int("succeeded", report.Succeeded).Int("failed", report.Failed).
			Msg("Done")
	default:
		flag.Usage()
		os.Exit(2)
	}
}

// runSingle extracts one image and writes its text to a timestamped file so
// repeated runs over the same source never overwrite each other.
func runSingle(ctx context.Context, engine *extractor.Engine, path string, mode preprocess.Mode, outputDir string) {
	text, err := engine.ExtractFile(ctx, path, mode)
	if err != nil {
		log.Fatal().Err(err).Str("source", path).Msg("Extraction failed")
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		log.Fatal().Err(err).Str("dir", outputDir).Msg("Cannot create output directory")
	}
	outPath := sink.TimestampedPath(outputDir, path)
	if err := os.WriteFile(outPath, []byte(text), 0644); err != nil {
		werr := &document.WriteError{Path: outPath, Err: err}
		log.Fatal().Err(werr).Msg("Cannot write output")
	}
	fmt.Println(outPath)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
