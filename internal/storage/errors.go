package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound wird von Catalog-Abfragen ohne Treffer zurückgegeben
var ErrNotFound = errors.New("not found")

// SchemaResolutionError meldet ein Schema-Objekt, das im Snapshot fehlt
// oder einen unerwarteten CQL-Typ hat.
type SchemaResolutionError struct {
	Keyspace string
	Object   string // Tabelle oder Typ
	Field    string // Spalte oder Feld, leer wenn das Objekt selbst fehlt
	Reason   string
}

func (e *SchemaResolutionError) Error() string {
	target := e.Keyspace
	if e.Object != "" {
		target += "." + e.Object
	}
	if e.Field != "" {
		target += "." + e.Field
	}
	if e.Reason == "" {
		return fmt.Sprintf("schema: %s not found", target)
	}
	return fmt.Sprintf("schema: %s: %s", target, e.Reason)
}

// RangeError meldet einen Eingabewert, der nicht in das Zielfeld passt
type RangeError struct {
	Field string
	Value int64
	Min   int64
	Max   int64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%s=%d out of range [%d, %d]", e.Field, e.Value, e.Min, e.Max)
}

// BindError meldet einen Wert, der nicht an eine Spalte gebunden werden konnte
type BindError struct {
	Table  string
	Column string
	Err    error
}

func (e *BindError) Error() string {
	return fmt.Sprintf("bind %s.%s: %v", e.Table, e.Column, e.Err)
}

func (e *BindError) Unwrap() error { return e.Err }

// WriteError meldet einen fehlgeschlagenen Batch. Nur dieser Fehler kann bei
// erneutem Schreiben desselben Datensatzes verschwinden.
type WriteError struct {
	Title string
	Genre string
	Err   error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write movie %q (%s): %v", e.Title, e.Genre, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// IsRetryable gibt zurück, ob err vom Batch stammt und nicht vom Datensatz selbst
func IsRetryable(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}
