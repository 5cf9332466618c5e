// cmd/hlsgraph/main.go

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
	"k8s.io/klog/v2"

	"hlsgraph/internal/collectors/environment"
	"hlsgraph/internal/collectors/graph"
	"hlsgraph/internal/collectors/host"
	"hlsgraph/internal/collectors/resource"
	"hlsgraph/internal/dataset"
	"hlsgraph/internal/metrics"
	"hlsgraph/internal/models"
	"hlsgraph/internal/profiles"
	"hlsgraph/internal/reporters"
	jsonreporter "hlsgraph/internal/reporters/json"
	"hlsgraph/internal/sources/db"
	"hlsgraph/pkg/config"
)

var (
	configPath = flag.String("config", "", "Configuration file (YAML or JSON)")
	saveConfig = flag.String("save-config", "", "Write the effective configuration to this file and exit")
	summary    = flag.String("summary", "stdout", "Run summary (stdout, text)")
	quiet      = flag.Bool("quiet", false, "Disable the progress bar")
	version    = flag.Bool("version", false, "Show version information")

	// overrides of configuration values
	datasetDir   = flag.String("dataset", "", "Root directory of generated datasets")
	outputFolder = flag.String("output", "", "Output folder under the dataset directory")
	inputsDir    = flag.String("inputs", "", "Directory with kernel sources and design tables")
	tempDir      = flag.String("tmp", "", "Scratch directory for annotated sources")
	compilerBin  = flag.String("compiler", "", "Graph compiler executable")
	profile      = flag.String("profile", "", "Graph profile ("+strings.Join(profiles.Names(), ", ")+")")
	groups       = flag.String("groups", "", "Comma separated kernel groups ("+strings.Join(dataset.GroupNames(), ", ")+")")
	workers      = flag.Int("workers", 0, "Parallel workers per kernel")
	format       = flag.String("format", "", "Example format ("+strings.Join(reporters.Formats(), ", ")+")")
	combineVast  = flag.Bool("combine-vast", false, "Add the combined VAST output group")
	allVast21    = flag.Bool("all-vast21", false, "Tag every graph with the VAST_21 dataset index")
	merlinOnly   = flag.Bool("merlin-only", false, "Skip the secondary graph of VAST designs")
	validOnly    = flag.Bool("valid-only", false, "Drop VAST designs that are not valid")
	noRegen      = flag.Bool("no-regen", false, "Keep examples that already exist")
)

const buildVersion = "0.1.0"

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	defer klog.Flush()

	if *version {
		fmt.Printf("hlsgraph version %s\n", buildVersion)
		return
	}

	// Database credentials may come from a .env file
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		klog.Warningf("Error loading .env file: %v", err)
	}

	cfg := config.DefaultConfig()
	if *configPath != "" {
		loaded, err := config.LoadConfig(*configPath)
		if err != nil {
			klog.Exitf("Failed to load configuration: %v", err)
		}
		cfg = loaded
	}
	applyFlags(cfg)
	if err := cfg.Validate(); err != nil {
		klog.Exitf("Invalid configuration: %v", err)
	}
	if *saveConfig != "" {
		if err := cfg.SaveConfig(*saveConfig); err != nil {
			klog.Exitf("Failed to save configuration: %v", err)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		klog.Errorf("Error: %v", err)
		klog.Flush()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config) error {
	p, err := profiles.Lookup(cfg.Profile)
	if err != nil {
		return err
	}
	resolved, err := profiles.Resolve(p, cfg.CompilerBinary)
	if err != nil {
		return err
	}
	compiler := graph.NewCompiler(resolved.Binary, resolved.Flags)

	jobs, outputs, err := dataset.Plan(cfg.Groups, cfg.CombineVast)
	if err != nil {
		return err
	}

	var conn *gorm.DB
	if needsDatabase(jobs) {
		conn, err = db.Connect(db.NewDefaultConfig())
		if err != nil {
			return err
		}
	}

	outDir := cfg.OutputDir()
	gen, err := dataset.NewGenerator(dataset.Options{
		OutputDir:   outDir,
		TempDir:     cfg.TempDir,
		Workers:     cfg.Workers,
		Format:      cfg.Format,
		CombineVast: cfg.CombineVast,
		AllVast21:   cfg.AllVast21,
		MerlinOnly:  cfg.MerlinOnly,
		ValidOnly:   cfg.ValidOnly,
		NoRegen:     cfg.NoRegen,
	}, resolved, compiler, dataset.Loaders(cfg.InputsDir, conn), jobs, outputs)
	if err != nil {
		return err
	}
	if !*quiet {
		gen.SetProgress(newProgress(os.Stderr))
	}

	factory := models.NewCollectorFactory()
	factory.RegisterCollector("environment", environment.NewCollector(cfg.CompilerBinary))
	factory.RegisterCollector("host", host.NewCollector())
	factory.RegisterCollector("resource", resource.NewCollector())
	factory.RegisterCollector("graph", graph.NewCollector(compiler))

	recorder := dataset.NewRecorder(factory)
	recorder.Start(ctx)

	klog.Infof("Run %s: profile %s, %d output values, writing to %s",
		gen.RunID(), cfg.Profile, gen.Layout().Length, outDir)
	manifest, runErr := gen.Run(ctx)
	if manifest == nil {
		return runErr
	}
	recorder.Finish(ctx, manifest)

	if err := jsonreporter.WriteManifest(outDir, manifest); err != nil {
		return err
	}
	if err := reporters.NewReporter(manifest, *summary, outDir, os.Stdout).Generate(); err != nil {
		klog.Warningf("Failed to generate summary: %v", err)
	}
	return runErr
}

// applyFlags copies explicitly set flags over the configuration
func applyFlags(cfg *config.Config) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dataset":
			cfg.DatasetDir = *datasetDir
		case "output":
			cfg.OutputFolder = *outputFolder
		case "inputs":
			cfg.InputsDir = *inputsDir
		case "tmp":
			cfg.TempDir = *tempDir
		case "compiler":
			cfg.CompilerBinary = *compilerBin
		case "profile":
			cfg.Profile = *profile
		case "groups":
			cfg.Groups = strings.Split(*groups, ",")
		case "workers":
			cfg.Workers = *workers
		case "format":
			cfg.Format = *format
		case "combine-vast":
			cfg.CombineVast = *combineVast
		case "all-vast21":
			cfg.AllVast21 = *allVast21
		case "merlin-only":
			cfg.MerlinOnly = *merlinOnly
		case "valid-only":
			cfg.ValidOnly = *validOnly
		case "no-regen":
			cfg.NoRegen = *noRegen
		}
	})
}

func needsDatabase(jobs []dataset.Job) bool {
	for _, job := range jobs {
		if job.Config == metrics.DB4HLS {
			return true
		}
	}
	return false
}
