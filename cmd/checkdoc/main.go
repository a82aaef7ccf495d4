package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/common"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/controlled"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/errdetect"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/fields"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/normalize"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/pipeline"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/refdata"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/rules"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/translate"
)

// checkdoc runs the full pipeline on one document without a database:
// read OCR text, extract fields, evaluate rules, report.

func main() {
	var (
		inputPath = flag.String("input", "", "path to input file; '-' or empty reads stdin")
		asJSON    = flag.Bool("raw-json", false, "input is a raw OCR JSON payload rather than plain text")
		rulesPath = flag.String("rules", "", "optional YAML rules file (default: built-in baseline)")
		dictPath  = flag.String("dict", "", "optional YAML reference data overrides")
		timeout   = flag.Duration("timeout", 2*time.Minute, "processing timeout")
	)
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))

	raw, err := readInput(*inputPath, *asJSON)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	ref, err := refdata.Load(*dictPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	cfg := common.LoadConfig()
	store := rules.NewStore(rules.NewFileSource(*rulesPath), logger)
	if err := store.Refresh(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error: load rules:", err)
		os.Exit(1)
	}

	translator := translate.NewClient(cfg.Translate.Endpoint, cfg.Translate.Timeout, logger,
		translate.WithChunkSize(cfg.Translate.ChunkSize),
		translate.WithRetries(cfg.Translate.MaxRetries, cfg.Translate.RetryDelay),
	)

	processor := pipeline.NewProcessor(
		logger,
		normalize.NewNormalizer(translator, logger),
		fields.NewExtractor(ref, cfg.Pipeline.DefaultOCRConfidence, logger),
		rules.NewEngine(logger),
		errdetect.NewDetector(errdetect.Config{
			LowConfidence:   cfg.Pipeline.LowConfidence,
			FuzzyAcceptance: cfg.Pipeline.FuzzyAcceptance,
		}, ref, logger),
		controlled.NewClassifier(ref, cfg.Pipeline.ControlledMinScore, logger),
		store,
	)

	result, err := processor.Process(ctx, uuid.New(), *raw)
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}

	status, severity := rules.Overall(result.Checks)
	out := struct {
		*entity.ProcessingResult
		ComplianceScore float64               `json:"compliance_score"`
		OverallStatus   constants.CheckStatus `json:"overall_status"`
		OverallSeverity constants.Severity    `json:"overall_severity"`
	}{result, rules.Score(result.Checks), status, severity}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func readInput(path string, asJSON bool) (*entity.RawOCRInput, error) {
	var data []byte
	var err error
	if path == "" || path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}

	if asJSON {
		var raw entity.RawOCRInput
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("parse input: %w", err)
		}
		return &raw, nil
	}
	return &entity.RawOCRInput{Text: strings.TrimRight(string(data), "\n")}, nil
}
