package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	tazaccess "github.com/theoremus-urban-solutions/taz-accessibility"
	"github.com/theoremus-urban-solutions/taz-accessibility/config"
	"github.com/theoremus-urban-solutions/taz-accessibility/export"
	"github.com/theoremus-urban-solutions/taz-accessibility/zoning"
)

func main() {
	configPath := flag.String("config", "", "path to config file (default: $TAZ_ACCESS_CONFIG, then config.yml)")
	mode := flag.String("mode", "serve", "run mode: serve or oneshot")
	scenarioPath := flag.String("scenario", "", "travel-time table to load as the uploaded scenario")
	attribute := flag.String("attribute", "", "attribute to aggregate (default from config)")
	threshold := flag.Float64("threshold", 0, "travel-time threshold in minutes (default from config)")
	origin := flag.Int64("origin", 0, "origin zone for time-band analysis")
	bandWidth := flag.Float64("band-width", 0, "band width in minutes (default from config)")
	call := flag.String("call", "access", "oneshot computation: access, bands or compare")
	format := flag.String("format", "json", "oneshot output format: json or csv")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	flag.Parse()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		logrus.Warnf("could not load .env file: %v", err)
	}
	if err := tazaccess.InitLogging(*logLevel); err != nil {
		logrus.Fatalf("invalid log level %q: %v", *logLevel, err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("configuration error: %v", err)
	}
	if *attribute == "" {
		*attribute = cfg.Analysis.DefaultAttribute
	}
	if *threshold == 0 {
		*threshold = cfg.Analysis.DefaultThreshold
	}
	if *bandWidth == 0 {
		*bandWidth = cfg.Analysis.DefaultBandWidth
	}

	baseline, err := tazaccess.LoadBaseline(cfg)
	if err != nil {
		logrus.Fatalf("baseline load error: %v", err)
	}
	base, err := tazaccess.LoadScenarioFile("base", cfg.Data.BaseSkim, baseline, cfg)
	if err != nil {
		logrus.Fatalf("base scenario load error: %v", err)
	}
	engine := tazaccess.NewEngine()

	switch *mode {
	case "serve":
		srv := tazaccess.NewServer(cfg, engine, baseline, base)
		if *scenarioPath != "" {
			uploaded, err := tazaccess.LoadScenarioFile("uploaded", *scenarioPath, baseline, cfg)
			if err != nil {
				logrus.Fatalf("uploaded scenario load error: %v", err)
			}
			srv.SetUploaded(uploaded)
		}
		srv.Start()
		srv.WaitForShutdown()
	case "oneshot":
		if err := runOneshot(cfg, engine, baseline, base, oneshotParams{
			scenarioPath: *scenarioPath,
			attribute:    *attribute,
			threshold:    *threshold,
			origin:       zoning.ZoneID(*origin),
			bandWidth:    *bandWidth,
			call:         *call,
			format:       *format,
		}); err != nil {
			logrus.Fatalf("oneshot error: %v", err)
		}
	default:
		logrus.Fatalf("unknown mode %q (want serve or oneshot)", *mode)
	}
}

type oneshotParams struct {
	scenarioPath string
	attribute    string
	threshold    float64
	origin       zoning.ZoneID
	bandWidth    float64
	call         string
	format       string
}

// runOneshot performs a single computation against stdin-free inputs and
// writes the result to stdout, for scripting and batch pipelines.
func runOneshot(cfg *config.AppConfig, engine *tazaccess.Engine, baseline *tazaccess.Baseline, base *tazaccess.Scenario, p oneshotParams) error {
	out := os.Stdout

	switch p.call {
	case "access":
		sc := base
		if p.scenarioPath != "" {
			var err error
			sc, err = tazaccess.LoadScenarioFile("uploaded", p.scenarioPath, baseline, cfg)
			if err != nil {
				return err
			}
		}
		res, err := engine.Compute(sc, p.attribute, p.threshold)
		if err != nil {
			return err
		}
		if p.format == "csv" {
			return export.WriteAccessibilityCSV(out, res)
		}
		return export.WriteJSON(out, res)
	case "bands":
		sc := base
		if p.scenarioPath != "" {
			var err error
			sc, err = tazaccess.LoadScenarioFile("uploaded", p.scenarioPath, baseline, cfg)
			if err != nil {
				return err
			}
		}
		res, err := engine.ComputeBands(sc, p.origin, p.bandWidth, p.attribute)
		if err != nil {
			return err
		}
		if p.format == "csv" {
			return export.WriteTimeBandCSV(out, res)
		}
		return export.WriteJSON(out, res)
	case "compare":
		if p.scenarioPath == "" {
			return fmt.Errorf("compare requires -scenario")
		}
		uploaded, err := tazaccess.LoadScenarioFile("uploaded", p.scenarioPath, baseline, cfg)
		if err != nil {
			return err
		}
		baseRes, err := engine.Compute(base, p.attribute, p.threshold)
		if err != nil {
			return err
		}
		otherRes, err := engine.Compute(uploaded, p.attribute, p.threshold)
		if err != nil {
			return err
		}
		cmp, err := tazaccess.Compare(baseRes, otherRes)
		if err != nil {
			return err
		}
		if p.format == "csv" {
			return export.WriteComparisonCSV(out, cmp)
		}
		return export.WriteJSON(out, cmp)
	default:
		return fmt.Errorf("unknown call %q (want access, bands or compare)", p.call)
	}
}
