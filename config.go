package idlc

import "fmt"

// CompilerConfig is the explicit configuration record DESIGN NOTES calls
// for in place of a global mutable definition table: every preprocessor
// define, include path, namespace wrapper, and module name the driver
// collects from the command line (spec.md §6) lives here, threaded
// explicitly into Compile instead of being read back out of package-level
// state.
type CompilerConfig struct {
	IdlPath        string
	OutputPath     string
	HeaderFile     string
	ProxyFile      string
	ProxyHeader    string
	StubFile       string
	StubHeader     string
	MockFile       string
	ModuleName     string
	IncludePaths   []string
	Namespaces     []string
	Defines        map[string]string
	DumpAndDie     bool

	// CallerIsHost feeds the classifier's caller_is_host input (spec.md
	// §4.4): true unless the generated proxy runs in a non-host
	// ("guest"/enclave) zone, which disallows the Reference role for
	// plain `&` in-parameters. Defaults to true (NewCompilerConfig).
	CallerIsHost bool

	// Settings holds secondary, less frequently touched toggles in the
	// same keyed shape as the teacher's own Config, generalized from
	// grammar/compiler knobs to this domain's equivalents.
	Settings Settings
}

// defaultMethodTag is the `tag` attribute's value when absent
// (spec.md §4.5, confirmed against original_source/generator/helpers.cpp).
const defaultMethodTag = 0

// NewCompilerConfig returns a CompilerConfig primed with the defaults
// spec.md §6 calls out explicitly: the always-injected GENERATOR=1 define,
// and ProxyHeader/StubHeader left blank so ResolveDefaults can fill them
// from ProxyFile/StubFile once those are known.
func NewCompilerConfig() *CompilerConfig {
	return &CompilerConfig{
		Defines:      map[string]string{"GENERATOR": "1"},
		Settings:     NewSettings(),
		CallerIsHost: true,
	}
}

// ResolveDefaults fills in --proxy_header/--stub_header from --proxy/--stub
// when the caller left them blank (spec.md §6).
func (c *CompilerConfig) ResolveDefaults() {
	if c.ProxyHeader == "" && c.ProxyFile != "" {
		c.ProxyHeader = c.ProxyFile + ".h"
	}
	if c.StubHeader == "" && c.StubFile != "" {
		c.StubHeader = c.StubFile + ".h"
	}
}

// Validate checks the required-flag invariants of spec.md §6's CLI table.
func (c *CompilerConfig) Validate() error {
	if c.IdlPath == "" {
		return &CompileError{Kind: ErrMissingIdl, Text: "no --idl given"}
	}
	if c.OutputPath == "" {
		return fmt.Errorf("--output_path is required")
	}
	if c.HeaderFile == "" {
		return fmt.Errorf("--header is required")
	}
	if c.ProxyFile == "" {
		return fmt.Errorf("--proxy is required")
	}
	if c.StubFile == "" {
		return fmt.Errorf("--stub is required")
	}
	return nil
}

// Settings is a keyed bag of secondary bool/int/string toggles, following
// the shape of the teacher's own config.go Config map generalized from
// grammar/compiler settings to this domain's emitter settings.
type Settings map[string]*settingVal

// NewSettings primes the defaults every emission pass relies on.
func NewSettings() Settings {
	s := make(Settings)
	s.SetBool("emit.buffered_proxy_serialiser", true)
	s.SetBool("emit.mock", false)
	s.SetInt("wire.protocol_min", 1)
	s.SetInt("wire.protocol_max", 2)
	return s
}

type settingValType int

const (
	settingUndefined settingValType = iota
	settingBool
	settingInt
	settingString
)

type settingVal struct {
	typ      settingValType
	asBool   bool
	asInt    int
	asString string
}

func (s Settings) SetBool(key string, v bool) { s[key] = &settingVal{typ: settingBool, asBool: v} }
func (s Settings) SetInt(key string, v int)    { s[key] = &settingVal{typ: settingInt, asInt: v} }
func (s Settings) SetString(key string, v string) {
	s[key] = &settingVal{typ: settingString, asString: v}
}

func (s Settings) GetBool(key string) bool {
	if v, ok := s[key]; ok && v.typ == settingBool {
		return v.asBool
	}
	return false
}

func (s Settings) GetInt(key string) int {
	if v, ok := s[key]; ok && v.typ == settingInt {
		return v.asInt
	}
	return 0
}

func (s Settings) GetString(key string) string {
	if v, ok := s[key]; ok && v.typ == settingString {
		return v.asString
	}
	return ""
}
