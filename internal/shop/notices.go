package shop

// Level grades a notice the way the original client graded its toasts.
type Level int

const (
	LevelSuccess Level = iota
	LevelInfo
	LevelWarning
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelSuccess:
		return "success"
	case LevelInfo:
		return "info"
	case LevelWarning:
		return "warning"
	default:
		return "error"
	}
}

// Notifier receives UI-facing signals. Store operations never let a raw
// network error escape to the presentation layer; everything arrives here.
type Notifier interface {
	Notify(level Level, message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(level Level, message string)

func (f NotifierFunc) Notify(level Level, message string) { f(level, message) }
