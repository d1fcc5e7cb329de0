package textclean

// maxSettlePasses bounds how often the stages run over their own output.
// Normalizing can expose structure ("🎉 # Title" becomes a heading once the
// emoji is gone), so the stages repeat until the text settles.
const maxSettlePasses = 8

// CleanText resolves overrides and cleans input. It never fails: malformed or
// adversarial text degrades to best-effort plain text.
func CleanText(input string, o Overrides) *Result {
	return CleanWithOptions(input, Resolve(o))
}

// CleanWithOptions cleans input with an already resolved configuration.
// Stages always run in the same order; a stage whose options are all
// disabled passes text through unchanged.
func CleanWithOptions(input string, opts Options) *Result {
	report := NewReport()

	text := guardInput(input, report)
	out := runStages(text, opts, report)
	for i := 1; i < maxSettlePasses; i++ {
		next := runStages(out, opts, report)
		if next == out {
			break
		}
		out = next
	}

	return &Result{Text: out, Report: report}
}

// runStages makes one pass over text. Rules only count when they change
// something, so a pass over settled text leaves the report as it was.
func runStages(text string, opts Options, report *Report) string {
	text = renderStructure(text, opts.Structure, report)
	text = normalize(text, opts, report)
	return finalizeWhitespace(text, opts.Whitespace, report)
}

// Cleaner binds a resolved configuration to the pipeline.
// It implements the cleaner.Cleaner interface and is safe for concurrent use.
type Cleaner struct {
	opts Options
}

// New creates a Cleaner from overrides.
func New(o Overrides) *Cleaner {
	return &Cleaner{opts: Resolve(o)}
}

// NewWithOptions creates a Cleaner from a resolved configuration.
func NewWithOptions(opts Options) *Cleaner {
	return &Cleaner{opts: opts}
}

// Name returns the cleaner name for logging.
func (c *Cleaner) Name() string {
	return "textclean"
}

// Clean returns the cleaned text. The error is always nil.
func (c *Cleaner) Clean(text string) (string, error) {
	return c.CleanWithStats(text).Text, nil
}

// CleanWithStats cleans text and returns the rule counts alongside it.
func (c *Cleaner) CleanWithStats(text string) *Result {
	return CleanWithOptions(text, c.opts)
}

// Options returns a copy of the resolved configuration.
func (c *Cleaner) Options() Options {
	return c.opts
}
