package accessor

// Processor transforms a field value before it is indexed.
type Processor interface {
	Process(text string) string
}

// NoOp is a Processor that returns its input unchanged. The built-in
// "html" format uses it together with HTML post-processing.
type NoOp struct{}

func (NoOp) Process(text string) string {
	return text
}
