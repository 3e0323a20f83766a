package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/qudec/decoder"
	"github.com/katalvlaran/qudec/eval"
)

// ErrInvalid indicates a run description failed validation.
var ErrInvalid = errors.New("config: invalid run")

// Decoder kinds accepted by Run.Decoder.
const (
	KindGlobal   = "global"
	KindSliding  = "sliding"
	KindFPD      = "fpd"
	KindPromatch = "promatch"
	KindEPR      = "epr"
)

// EPR names the sub-circuit models of an EPR run.
type EPR struct {
	InnerDEM       string `yaml:"inner_dem" validate:"required"`
	OuterDEM       string `yaml:"outer_dem" validate:"required"`
	InnerWindowDEM string `yaml:"inner_window_dem"`
}

// Window mirrors decoder.WindowParams for YAML.
type Window struct {
	Commit            int `yaml:"commit" validate:"gt=0"`
	Window            int `yaml:"window" validate:"gtefield=Commit"`
	DetectorsPerRound int `yaml:"detectors_per_round" validate:"gt=0"`
	Rounds            int `yaml:"rounds" validate:"gt=0"`
}

// Params returns the decoder parameters.
func (w Window) Params() decoder.WindowParams {
	return decoder.WindowParams{Commit: w.Commit, Window: w.Window, DetectorsPerRound: w.DetectorsPerRound, Rounds: w.Rounds}
}

// FPD mirrors decoder.FPDConfig for YAML.
type FPD struct {
	ChainLimit           int  `yaml:"chain_limit" validate:"gte=0,lte=16"`
	SkipIfAnyWithoutPref bool `yaml:"skip_if_any_without_pref"`
}

// Config returns the decoder configuration.
func (f FPD) Config() decoder.FPDConfig {
	return decoder.FPDConfig{ChainLimit: f.ChainLimit, SkipIfAnyWithoutPref: f.SkipIfAnyWithoutPref}
}

// Promatch mirrors decoder.PromatchConfig for YAML.
type Promatch struct {
	Disabled  bool `yaml:"disabled"`
	MaxRounds int  `yaml:"max_rounds" validate:"gte=0"`
}

// Config returns the decoder configuration.
func (p Promatch) Config() decoder.PromatchConfig {
	return decoder.PromatchConfig{Disabled: p.Disabled, MaxRounds: p.MaxRounds}
}

// Run is one benchmark description.
type Run struct {
	DEM       string `yaml:"dem" validate:"required"`
	Decoder   string `yaml:"decoder" validate:"oneof=global sliding fpd promatch epr"`
	Solver    string `yaml:"solver" validate:"oneof=exact blossom dp greedy"`
	Merge     string `yaml:"merge" validate:"oneof=or overwrite"`
	LogLevel  string `yaml:"log_level" validate:"oneof=debug info warn error"`
	Reference bool   `yaml:"reference"`

	// WindowDEM is the local window model of a sliding run; empty decodes
	// windows on the full graph.
	WindowDEM string      `yaml:"window_dem"`
	Window    Window      `yaml:"window" validate:"-"`
	EPR       EPR         `yaml:"epr" validate:"-"`
	FPD       FPD         `yaml:"fpd"`
	Promatch  Promatch    `yaml:"promatch"`
	Eval      eval.Config `yaml:"eval"`
}

// Default returns a global decoder run with default accelerator and
// benchmark settings and no model.
func Default() Run {
	fpd := decoder.DefaultFPDConfig()

	return Run{
		Decoder:  KindGlobal,
		Solver:   "exact",
		Merge:    "or",
		LogLevel: "info",
		FPD:      FPD{ChainLimit: fpd.ChainLimit, SkipIfAnyWithoutPref: fpd.SkipIfAnyWithoutPref},
		Eval:     eval.DefaultConfig(),
	}
}

// Load reads the YAML run at path over Default and validates it.
func Load(path string) (Run, error) {
	r, err := Read(path)
	if err != nil {
		return Run{}, err
	}
	if err := r.Validate(); err != nil {
		return Run{}, err
	}

	return r, nil
}

// Read reads the YAML run at path over Default without validating it, so
// callers can apply overrides first.
func Read(path string) (Run, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Run{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	return decode(data)
}

// Parse decodes YAML over Default and validates the result. Unknown keys
// are rejected.
func Parse(data []byte) (Run, error) {
	r, err := decode(data)
	if err != nil {
		return Run{}, err
	}
	if err := r.Validate(); err != nil {
		return Run{}, err
	}

	return r, nil
}

func decode(data []byte) (Run, error) {
	r := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil && !errors.Is(err, io.EOF) {
		return Run{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}

	return r, nil
}

// Validate checks field constraints, and the window and EPR sections when
// the decoder kind needs them.
func (r Run) Validate() error {
	v := validator.New()
	if err := v.Struct(r); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if r.Decoder == KindSliding || r.Decoder == KindEPR {
		if err := v.Struct(r.Window); err != nil {
			return fmt.Errorf("%w: window: %w", ErrInvalid, err)
		}
	}
	if r.Decoder == KindEPR {
		if err := v.Struct(r.EPR); err != nil {
			return fmt.Errorf("%w: epr: %w", ErrInvalid, err)
		}
	}

	return nil
}
