package idlc

// Compile is the CORE's single entry point: given a semantic model root
// already filled in by an (external) parser, and a configuration record,
// it runs the multi-stream emitter (component F) — which in turn drives
// the scope resolver (component C), fingerprint generator (component D),
// and parameter classifier (component E) — and returns the buffered
// output streams, or the first fatal diagnostic (spec.md §2's control
// flow, §7's error propagation).
func Compile(root *Entity, cfg *CompilerConfig) (*Output, error) {
	cfg.ResolveDefaults()
	return Generate(root, cfg)
}
