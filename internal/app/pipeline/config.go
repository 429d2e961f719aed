package pipeline

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/heartmarshall/wenyan-gloss/internal/domain"
	"github.com/heartmarshall/wenyan-gloss/internal/gloss"
)

// Config holds offline pipeline settings.
type Config struct {
	TextbookPassages string `yaml:"textbook_passages" env:"PIPELINE_TEXTBOOK_PASSAGES"`
	DatasetPassages  string `yaml:"dataset_passages"  env:"PIPELINE_DATASET_PASSAGES"`
	ModelTestCSV     string `yaml:"model_test_csv"    env:"PIPELINE_MODEL_TEST_CSV"`
	QueryNotes       string `yaml:"query_notes"       env:"PIPELINE_QUERY_NOTES"`
	OutputDir        string `yaml:"output_dir"        env:"PIPELINE_OUTPUT_DIR"       env-default:"./data"`

	Workers   int  `yaml:"workers"    env:"PIPELINE_WORKERS"    env-default:"4"`
	BatchSize int  `yaml:"batch_size" env:"PIPELINE_BATCH_SIZE" env-default:"500"`
	DryRun    bool `yaml:"dry_run"    env:"PIPELINE_DRY_RUN"`

	TextbookLeft  int `yaml:"textbook_left"  env:"PIPELINE_TEXTBOOK_LEFT"  env-default:"3"`
	TextbookRight int `yaml:"textbook_right" env:"PIPELINE_TEXTBOOK_RIGHT" env-default:"2"`
	RemarkLeft    int `yaml:"remark_left"    env:"PIPELINE_REMARK_LEFT"    env-default:"3"`
	RemarkRight   int `yaml:"remark_right"   env:"PIPELINE_REMARK_RIGHT"   env-default:"2"`
	StopCost      int `yaml:"stop_cost"      env:"PIPELINE_STOP_COST"      env-default:"2"`
	PauseCost     int `yaml:"pause_cost"     env:"PIPELINE_PAUSE_COST"     env-default:"1"`

	TextbookWeight int `yaml:"textbook_weight" env:"PIPELINE_TEXTBOOK_WEIGHT" env-default:"3"`
	DatasetWeight  int `yaml:"dataset_weight"  env:"PIPELINE_DATASET_WEIGHT"  env-default:"1"`
	QueryWeight    int `yaml:"query_weight"    env:"PIPELINE_QUERY_WEIGHT"    env-default:"2"`

	SampleStride int `yaml:"sample_stride" env:"PIPELINE_SAMPLE_STRIDE" env-default:"10"`
	SampleOffset int `yaml:"sample_offset" env:"PIPELINE_SAMPLE_OFFSET"`
	SampleLimit  int `yaml:"sample_limit"  env:"PIPELINE_SAMPLE_LIMIT"`

	// Note filters applied to sampled words. MaxCoreDetail 0 means no cap.
	SampleShortOnly     bool `yaml:"sample_short_only"      env:"PIPELINE_SAMPLE_SHORT_ONLY"`
	SampleSkipTitles    bool `yaml:"sample_skip_titles"     env:"PIPELINE_SAMPLE_SKIP_TITLES"`
	SampleMaxCoreDetail int  `yaml:"sample_max_core_detail" env:"PIPELINE_SAMPLE_MAX_CORE_DETAIL"`
}

// LoadConfig reads pipeline configuration from a YAML file and environment variables.
// Priority: ENV > YAML > defaults (via env-default tags).
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("pipeline config: file %s not found", path)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("pipeline config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("pipeline config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("pipeline config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the numeric settings.
func (c *Config) Validate() error {
	var errs []domain.FieldError

	if c.Workers < 1 {
		errs = append(errs, domain.FieldError{Field: "workers", Message: "must be at least 1"})
	}
	if c.TextbookLeft < 0 || c.TextbookRight < 0 || c.RemarkLeft < 0 || c.RemarkRight < 0 {
		errs = append(errs, domain.FieldError{Field: "budget", Message: "must not be negative"})
	}
	if c.StopCost < 1 || c.PauseCost < 1 {
		errs = append(errs, domain.FieldError{Field: "cost", Message: "must be at least 1"})
	}
	if c.TextbookWeight < 0 || c.DatasetWeight < 0 || c.QueryWeight < 0 {
		errs = append(errs, domain.FieldError{Field: "weights", Message: "must not be negative"})
	}
	if c.SampleStride < 1 {
		errs = append(errs, domain.FieldError{Field: "sample_stride", Message: "must be at least 1"})
	}
	if c.SampleOffset < 0 || c.SampleLimit < 0 {
		errs = append(errs, domain.FieldError{Field: "sample", Message: "offset and limit must not be negative"})
	}
	if c.SampleMaxCoreDetail < 0 {
		errs = append(errs, domain.FieldError{Field: "sample_max_core_detail", Message: "must not be negative"})
	}

	if len(errs) > 0 {
		return domain.NewValidationErrors(errs)
	}
	return nil
}

// TextbookBudget returns the context budget for bracketed footnotes.
func (c *Config) TextbookBudget() gloss.ClauseBudget {
	return gloss.ClauseBudget{Left: c.TextbookLeft, Right: c.TextbookRight, StopCost: c.StopCost, PauseCost: c.PauseCost}
}

// RemarkBudget returns the context budget for colon-form remarks.
func (c *Config) RemarkBudget() gloss.ClauseBudget {
	return gloss.ClauseBudget{Left: c.RemarkLeft, Right: c.RemarkRight, StopCost: c.StopCost, PauseCost: c.PauseCost}
}

// Weights returns the ranking weights.
func (c *Config) Weights() domain.FreqWeights {
	return domain.FreqWeights{Textbook: c.TextbookWeight, Dataset: c.DatasetWeight, Query: c.QueryWeight}
}

// Output file names inside OutputDir.
const (
	TextbookNotesFile = "textbook_notes.jsonl"
	DatasetNotesFile  = "dataset_notes.jsonl"
	CSVNotesFile      = "model_test_notes.jsonl"
	FreqFile          = "freq.jsonl"
	SampleFile        = "sample.jsonl"
)
