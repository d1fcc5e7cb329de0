package textclean

// node is one parsed structural unit. The set of node kinds is closed: every
// kind implements accept, and nodeVisitor has one method per kind, so a
// renderer that misses a kind does not compile.
type node interface {
	accept(v nodeVisitor) []string
}

// nodeVisitor renders each node kind to output lines. A nil slice means the
// node is omitted from the output.
type nodeVisitor interface {
	visitHeading(n *headingNode) []string
	visitParagraph(n *paragraphNode) []string
	visitListItem(n *listItemNode) []string
	visitBlockquote(n *blockquoteNode) []string
	visitCodeBlock(n *codeBlockNode) []string
	visitRule(n *ruleNode) []string
	visitBlank(n *blankNode) []string
}

// headingNode is an ATX heading. Its text is parsed again as a line.
type headingNode struct {
	level int
	inner node
}

type paragraphNode struct {
	runs []inlineRun
}

// listItemNode is a bullet or numbered item. marker is the bullet character
// or the number followed by its delimiter.
type listItemNode struct {
	marker  string
	ordered bool
	number  string
	inner   node
}

// blockquoteNode is a quoted line. Nested quote markers are already collapsed.
type blockquoteNode struct {
	inner node
}

// codeBlockNode is either a fenced block or a single preformatted line
// (fenced == false) that keeps its layout. open is the raw opening fence line.
type codeBlockNode struct {
	fenced     bool
	terminated bool
	fence      string
	info       string
	open       string
	lines      []string
}

type ruleNode struct {
	raw string
}

type blankNode struct{}

func (n *headingNode) accept(v nodeVisitor) []string { return v.visitHeading(n) }
func (n *paragraphNode) accept(v nodeVisitor) []string { return v.visitParagraph(n) }
func (n *listItemNode) accept(v nodeVisitor) []string { return v.visitListItem(n) }
func (n *blockquoteNode) accept(v nodeVisitor) []string { return v.visitBlockquote(n) }
func (n *codeBlockNode) accept(v nodeVisitor) []string { return v.visitCodeBlock(n) }
func (n *ruleNode) accept(v nodeVisitor) []string { return v.visitRule(n) }
func (n *blankNode) accept(v nodeVisitor) []string { return v.visitBlank(n) }

type inlineKind int

const (
	inlineText inlineKind = iota
	inlineLink
	inlineEmphasis
)

// inlineRun is a piece of line text: plain text, a link (or image), or an
// emphasis span. Links and emphasis carry their parsed content in children
// and their original source in raw.
type inlineRun struct {
	kind     inlineKind
	text     string
	raw      string
	url      string
	image    bool
	marker   string
	children []inlineRun
}
