package view

import "github.com/thesavant42/psiview/internal/models"

// Store holds the immutable record list for a session
type Store struct {
	records []models.Record
	byID    map[string]int
}

// NewStore copies records into a new store. Later records with a duplicate ID
// are kept in the list but Get returns the first.
func NewStore(records []models.Record) *Store {
	s := &Store{
		records: make([]models.Record, len(records)),
		byID:    make(map[string]int, len(records)),
	}
	copy(s.records, records)
	for i, r := range s.records {
		if _, exists := s.byID[r.ID]; !exists {
			s.byID[r.ID] = i
		}
	}
	return s
}

// Len returns the number of records
func (s *Store) Len() int {
	if s == nil {
		return 0
	}
	return len(s.records)
}

// All returns the records in insertion order. Callers must not modify the slice.
func (s *Store) All() []models.Record {
	if s == nil {
		return nil
	}
	return s.records
}

// Get looks up a record by ID
func (s *Store) Get(id string) (models.Record, bool) {
	if s == nil {
		return models.Record{}, false
	}
	i, ok := s.byID[id]
	if !ok {
		return models.Record{}, false
	}
	return s.records[i], true
}
