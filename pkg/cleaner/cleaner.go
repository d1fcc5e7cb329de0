// Package cleaner defines the interface shared by text cleaners and the
// helpers that compose them. A cleaner takes captured text (pasted prompts,
// saved chat pages) and returns a form suitable for reuse as a prompt.
package cleaner

// Cleaner transforms captured content into cleaner text.
type Cleaner interface {
	// Clean transforms the input. The output format depends on the
	// implementation (markdown-ish text, plain text, etc.).
	Clean(content string) (string, error)

	// Name returns the cleaner type for logging/debugging.
	Name() string
}
