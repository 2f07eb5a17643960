package logger

// Logger is the logging contract used across the preprocessing pipeline.
// Verbosity is decided at construction time; nothing in the core consults
// ambient global state.
type Logger interface {
	Debug(component, message string, fields map[string]interface{})
	Info(component, message string, fields map[string]interface{})
	Warning(component, message string, fields map[string]interface{})
	Error(component string, err error, fields map[string]interface{})
}

// Nop discards all log output. Used by tests and by callers that run the
// core silently.
type Nop struct{}

func NewNop() *Nop { return &Nop{} }

func (Nop) Debug(string, string, map[string]interface{})   {}
func (Nop) Info(string, string, map[string]interface{})    {}
func (Nop) Warning(string, string, map[string]interface{}) {}
func (Nop) Error(string, error, map[string]interface{})    {}
