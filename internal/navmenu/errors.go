package navmenu

import "fmt"

// ParentNotFoundError reports an entry whose parent name is absent from the
// previous level.
type ParentNotFoundError struct {
	Level      Level
	EntryName  string
	ParentName string
}

func (e *ParentNotFoundError) Error() string {
	return fmt.Sprintf("%s entry %q: parent %q not found", e.Level, e.EntryName, e.ParentName)
}

// SourceError is returned by list sources when a list cannot be read or the
// response carries no usable entries.
type SourceError struct {
	Level   Level
	List    string
	Message string
	Err     error
}

func (e *SourceError) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.List == "" {
		return msg
	}
	return fmt.Sprintf("reading %q: %s", e.List, msg)
}

func (e *SourceError) Unwrap() error { return e.Err }
