// ABOUTME: Badger key-value storage implementation for annotation data
// ABOUTME: Stores one JSON document per annotation plus a name index

package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/dgraph-io/badger/v3"
	"github.com/google/uuid"
	"github.com/harper/tiers/internal/models"
	"github.com/rs/zerolog"
)

const (
	annotationPrefix = "annotation/"
	namePrefix       = "name/"
)

// BadgerStore implements Repository on an embedded Badger database.
type BadgerStore struct {
	db  *badger.DB
	dir string
	log zerolog.Logger
}

// Compile-time check that BadgerStore implements Repository.
var _ Repository = (*BadgerStore)(nil)

// badgerLogger routes badger's internal logging through zerolog.
type badgerLogger struct {
	log zerolog.Logger
}

func (l badgerLogger) Errorf(format string, args ...interface{}) {
	l.log.Error().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Warningf(format string, args ...interface{}) {
	l.log.Warn().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Infof(format string, args ...interface{}) {
	l.log.Debug().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

func (l badgerLogger) Debugf(format string, args ...interface{}) {
	l.log.Trace().Msg(strings.TrimSpace(fmt.Sprintf(format, args...)))
}

// NewBadgerStore opens (or creates) a Badger database in dir.
func NewBadgerStore(dir string, opts ...Option) (*BadgerStore, error) {
	o := buildOptions(opts)

	if err := os.MkdirAll(dir, 0750); err != nil { //nolint:gosec // 0750 is appropriate for user data directory
		return nil, fmt.Errorf("create directory: %w", err)
	}

	bopts := badger.DefaultOptions(dir).
		WithLogger(badgerLogger{log: o.log.With().Str("component", "badger").Logger()})
	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("open badger: %w", err)
	}

	o.log.Debug().Str("dir", dir).Msg("opened badger store")
	return &BadgerStore{db: db, dir: dir, log: o.log}, nil
}

// Close closes the database.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Reset clears all data from the store.
func (s *BadgerStore) Reset() error {
	return s.db.DropAll()
}

func annotationKey(id uuid.UUID) []byte {
	return []byte(annotationPrefix + id.String())
}

func nameKey(name string) []byte {
	return []byte(namePrefix + name)
}

func getDoc(txn *badger.Txn, id uuid.UUID) (*AnnotationBackup, error) {
	item, err := txn.Get(annotationKey(id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get annotation: %w", err)
	}
	var doc AnnotationBackup
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &doc)
	})
	if err != nil {
		return nil, fmt.Errorf("decode annotation: %w", err)
	}
	return &doc, nil
}

func putDoc(txn *badger.Txn, doc *AnnotationBackup) error {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return fmt.Errorf("invalid annotation ID %s: %w", doc.ID, err)
	}
	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode annotation: %w", err)
	}
	return txn.Set(annotationKey(id), data)
}

// CreateAnnotation stores an annotation together with its tiers.
func (s *BadgerStore) CreateAnnotation(a *models.Annotation) error {
	doc := toBackup(a)
	return s.db.Update(func(txn *badger.Txn) error {
		if _, err := txn.Get(nameKey(a.Name)); err == nil {
			return fmt.Errorf("annotation %q: %w", a.Name, ErrDuplicate)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("check name: %w", err)
		}
		if err := putDoc(txn, &doc); err != nil {
			return err
		}
		return txn.Set(nameKey(a.Name), []byte(a.ID.String()))
	})
}

// GetAnnotationByID retrieves an annotation by its UUID.
func (s *BadgerStore) GetAnnotationByID(id uuid.UUID) (*models.Annotation, error) {
	var doc *AnnotationBackup
	err := s.db.View(func(txn *badger.Txn) error {
		var err error
		doc, err = getDoc(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fromBackup(*doc)
}

// GetAnnotationByName retrieves an annotation by its name.
func (s *BadgerStore) GetAnnotationByName(name string) (*models.Annotation, error) {
	var doc *AnnotationBackup
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(nameKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get name: %w", err)
		}
		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		id, err := uuid.Parse(string(raw))
		if err != nil {
			return fmt.Errorf("invalid name index for %q: %w", name, err)
		}
		doc, err = getDoc(txn, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return fromBackup(*doc)
}

// ListAnnotations returns all annotations sorted by name.
func (s *BadgerStore) ListAnnotations() ([]*models.Annotation, error) {
	var docs []AnnotationBackup
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(annotationPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var doc AnnotationBackup
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &doc)
			})
			if err != nil {
				return fmt.Errorf("decode annotation: %w", err)
			}
			docs = append(docs, doc)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(docs, func(i, j int) bool { return docs[i].Name < docs[j].Name })
	list := make([]*models.Annotation, 0, len(docs))
	for _, doc := range docs {
		a, err := fromBackup(doc)
		if err != nil {
			return nil, err
		}
		list = append(list, a)
	}
	return list, nil
}

// DeleteAnnotation removes an annotation and its name index entry.
func (s *BadgerStore) DeleteAnnotation(id uuid.UUID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		doc, err := getDoc(txn, id)
		if err != nil {
			return err
		}
		if err := txn.Delete(annotationKey(id)); err != nil {
			return err
		}
		return txn.Delete(nameKey(doc.Name))
	})
}

// SaveTier inserts or replaces a tier inside its annotation document.
func (s *BadgerStore) SaveTier(annotationID uuid.UUID, tier *models.Tier) error {
	tb := tierToBackup(tier)
	err := s.db.Update(func(txn *badger.Txn) error {
		doc, err := getDoc(txn, annotationID)
		if err != nil {
			return err
		}
		replaced := false
		for i := range doc.Tiers {
			if doc.Tiers[i].ID == tb.ID {
				doc.Tiers[i] = tb
				replaced = true
				continue
			}
			if doc.Tiers[i].Name == tb.Name {
				return fmt.Errorf("tier %q: %w", tb.Name, ErrDuplicate)
			}
		}
		if !replaced {
			doc.Tiers = append(doc.Tiers, tb)
		}
		return putDoc(txn, doc)
	})
	if err != nil {
		return err
	}

	s.log.Debug().
		Str("tier", tier.Name).
		Str("kind", string(tier.Kind)).
		Int("markers", tier.Len()).
		Msg("saved tier")
	return nil
}

// DeleteTier removes a single tier from its annotation document.
func (s *BadgerStore) DeleteTier(annotationID, tierID uuid.UUID) error {
	return s.db.Update(func(txn *badger.Txn) error {
		doc, err := getDoc(txn, annotationID)
		if err != nil {
			return err
		}
		for i := range doc.Tiers {
			if doc.Tiers[i].ID == tierID.String() {
				doc.Tiers = append(doc.Tiers[:i], doc.Tiers[i+1:]...)
				return putDoc(txn, doc)
			}
		}
		return ErrNotFound
	})
}
