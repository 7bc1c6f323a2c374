// Command idlc drives the code generator: it parses a single IDL file,
// feeds the resulting semantic model into idlc.Compile, and writes each
// output stream whose file name is set (empty streams included) under the
// output path named on the command line.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/golang/glog"
	"github.com/spf13/cobra"

	"github.com/zonerpc/idlc"
	"github.com/zonerpc/idlc/frontend"
)

func main() {
	// glog registers its flags (-v, -logtostderr, ...) on the stdlib flag
	// package; cobra/pflag owns os.Args here, so parse an empty argument
	// list just to let glog apply its defaults, and push logging to stderr
	// the way a command-line tool (rather than a long-running server) wants.
	flag.Set("logtostderr", "true")
	flag.CommandLine.Parse(nil)
	defer glog.Flush()

	if err := newRootCmd().Execute(); err != nil {
		glog.Error(err)
		glog.Flush()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfg := idlc.NewCompilerConfig()
	var (
		projectFile string
		envFile     string
		rawDefines  []string
	)

	cmd := &cobra.Command{
		Use:   "idlc",
		Short: "Generate dual-protocol-version RPC proxies and stubs from an IDL file",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, d := range rawDefines {
				name, value, _ := splitDefine(d)
				cfg.Defines[name] = value
			}

			if projectFile != "" {
				if err := idlc.LoadProjectDefaults(cfg, projectFile); err != nil {
					return fmt.Errorf("loading project defaults: %w", err)
				}
			}
			if envFile != "" {
				if err := idlc.LoadEnvDefines(cfg, envFile); err != nil {
					return fmt.Errorf("loading env defines: %w", err)
				}
			}

			if err := cfg.Validate(); err != nil {
				return err
			}

			resolvedIdl, err := resolveIdlPath(cfg.IdlPath, cfg.IncludePaths)
			if err != nil {
				return err
			}

			src, err := os.ReadFile(resolvedIdl)
			if err != nil {
				return fmt.Errorf("reading %s: %w", resolvedIdl, err)
			}

			if cfg.DumpAndDie {
				fmt.Println(string(src))
				return nil
			}

			root, err := frontend.Parse(string(src), cfg.Defines)
			if err != nil {
				return fmt.Errorf("parsing %s: %w", resolvedIdl, err)
			}

			for i := len(cfg.Namespaces) - 1; i >= 0; i-- {
				root = wrapNamespace(root, cfg.Namespaces[i])
			}

			out, err := idlc.Compile(root, cfg)
			if err != nil {
				return err
			}

			return writeOutputs(cfg, out)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&cfg.IdlPath, "idl", "i", "", "path to the input IDL file (required)")
	flags.StringVarP(&cfg.OutputPath, "output_path", "p", "", "directory output files are written into (required)")
	flags.StringVarP(&cfg.HeaderFile, "header", "h", "", "header output file name (required)")
	flags.StringVarP(&cfg.ProxyFile, "proxy", "x", "", "proxy source output file name (required)")
	flags.StringVarP(&cfg.ProxyHeader, "proxy_header", "y", "", "proxy header output file name (default: <proxy>.h)")
	flags.StringVarP(&cfg.StubFile, "stub", "s", "", "stub source output file name (required)")
	flags.StringVarP(&cfg.StubHeader, "stub_header", "t", "", "stub header output file name (default: <stub>.h)")
	flags.StringVarP(&cfg.MockFile, "mock", "m", "", "mock header output file name (optional)")
	flags.StringVarP(&cfg.ModuleName, "module_name", "M", "", "module name used for the stub registration function")
	flags.StringArrayVar(&cfg.IncludePaths, "path", nil, "search root for resolving the IDL path (repeatable)")
	flags.StringArrayVarP(&cfg.Namespaces, "namespace", "n", nil, "enclosing namespace to wrap the whole file in (repeatable)")
	flags.BoolVarP(&cfg.DumpAndDie, "dump_preprocessor_output_and_die", "d", false, "print the resolved IDL source and exit without generating")
	flags.StringArrayVarP(&rawDefines, "define", "D", nil, "preprocessor define NAME[=VALUE] (repeatable)")
	flags.StringVar(&projectFile, "project_file", "idlc.yaml", "project defaults file (module name, namespaces, include paths)")
	flags.StringVar(&envFile, "env_file", "", "optional .env-style file of macro defines layered under -D")

	return cmd
}

func splitDefine(raw string) (name, value string, hasValue bool) {
	for i := 0; i < len(raw); i++ {
		if raw[i] == '=' {
			return raw[:i], raw[i+1:], true
		}
	}
	return raw, "", false
}

// resolveIdlPath resolves a bare IDL file name against the configured
// include-path roots with doublestar, so a zone's IDL tree can nest
// interface fragments under per-module subdirectories.
func resolveIdlPath(idlPath string, roots []string) (string, error) {
	if _, err := os.Stat(idlPath); err == nil {
		return idlPath, nil
	}
	for _, root := range roots {
		matches, err := doublestar.Glob(os.DirFS(root), "**/"+filepath.Base(idlPath))
		if err != nil {
			return "", err
		}
		for _, m := range matches {
			candidate := filepath.Join(root, m)
			if filepath.Base(candidate) == filepath.Base(idlPath) {
				return candidate, nil
			}
		}
	}
	return "", fmt.Errorf("could not resolve %q under any --path root", idlPath)
}

// wrapNamespace wraps root's children in a synthetic namespace named name,
// the way the repeatable --namespace flag nests its values (outermost
// first) around the whole translation unit.
func wrapNamespace(root *idlc.Entity, name string) *idlc.Entity {
	wrapper := idlc.NewEntity(idlc.KindNamespace, name)
	children := root.Children
	root.Children = nil
	for _, child := range children {
		wrapper.AddChild(child)
	}
	return wrapper
}

// writeOutputs lays files out per spec.md §6's generated-file-layout table:
// the public header and optional mock live under <output>/include/, while
// the proxy/proxy_header/stub/stub_header all live under <output>/src/.
func writeOutputs(cfg *idlc.CompilerConfig, out *idlc.Output) error {
	type placedFile struct {
		subdir string
		name   string
		body   string
	}
	files := []placedFile{
		{"include", cfg.HeaderFile, out.Header},
		{"src", cfg.ProxyFile, out.Proxy},
		{"src", cfg.ProxyHeader, out.ProxyHeader},
		{"src", cfg.StubFile, out.Stub},
		{"src", cfg.StubHeader, out.StubHeader},
	}
	if cfg.MockFile != "" {
		files = append(files, placedFile{"include", cfg.MockFile, out.Mock})
	}

	for _, subdir := range []string{"include", "src"} {
		dir := filepath.Join(cfg.OutputPath, subdir)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}

	for _, f := range files {
		if f.name == "" {
			continue
		}
		path := filepath.Join(cfg.OutputPath, f.subdir, f.name)
		if err := os.WriteFile(path, []byte(f.body), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
	}
	return nil
}
