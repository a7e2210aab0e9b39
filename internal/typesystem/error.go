package typesystem

import "fmt"

// SymbolNotFoundError indicates a symbol was not found
type SymbolNotFoundError struct {
	Name string
}

func (e *SymbolNotFoundError) Error() string {
	return fmt.Sprintf("symbol not found: %s", e.Name)
}

func NewSymbolNotFoundError(name string) *SymbolNotFoundError {
	return &SymbolNotFoundError{Name: name}
}

// AliasCycleError reports a typealias that expands to itself.
type AliasCycleError struct {
	Name string
}

func (e *AliasCycleError) Error() string {
	return fmt.Sprintf("typealias %s references itself", e.Name)
}
