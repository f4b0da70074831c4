package storage

import (
	"fmt"

	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// IDGenerator vergibt Primärschlüssel für neue Filme. Implementierungen müssen nebenläufig nutzbar sein.
type IDGenerator interface {
	NewID() gocql.UUID
}

// RandomIDs erzeugt UUIDs der Version 4
type RandomIDs struct{}

func (RandomIDs) NewID() gocql.UUID {
	return gocql.UUID(uuid.New())
}

// TimeIDs erzeugt zeitbasierte UUIDs der Version 1
type TimeIDs struct{}

func (TimeIDs) NewID() gocql.UUID {
	return gocql.TimeUUID()
}

// NewIDGenerator wählt den Generator zur konfigurierten Strategie
func NewIDGenerator(strategy string) (IDGenerator, error) {
	switch strategy {
	case "", "random":
		return RandomIDs{}, nil
	case "time":
		return TimeIDs{}, nil
	default:
		return nil, fmt.Errorf("unknown id strategy %q", strategy)
	}
}
