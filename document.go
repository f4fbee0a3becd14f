package journal

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"

	"github.com/halcyon-engine/journal/unique"
)

// Entry pairs a Message with the sequence index the consumer assigned to it.
type Entry struct {
	Index   uint64  `json:"index"`
	Message Message `json:"message"`
}

// Document is the durable on-disk log: a session identifier, the creation
// timestamp, and the insertion-ordered entries flushed so far.
type Document struct {
	ID        unique.ID `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Messages  []Entry   `json:"messages"`
}

// docStore owns the document file. It is used exclusively by the consumer
// goroutine, so no file locking is required.
type docStore struct {
	path string
}

func newDocStore(path string) *docStore {
	return &docStore{path: path}
}

// rotate moves any pre-existing document aside with an ".old" suffix. A
// missing document is not an error; rename failures are returned for the
// caller to report and continue.
func (s *docStore) rotate() error {
	if _, err := os.Stat(s.path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("stat %s: %w", s.path, err)
	}
	old := s.path + oldSuffix
	if err := os.Remove(old); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %s: %w", old, err)
	}
	if err := os.Rename(s.path, old); err != nil {
		return fmt.Errorf("rotate %s: %w", s.path, err)
	}
	return nil
}

// create writes a fresh empty document tagged with a new session identifier.
func (s *docStore) create() error {
	doc := &Document{
		ID:        unique.Generate(),
		Timestamp: time.Now().UTC(),
		Messages:  []Entry{},
	}
	return s.write(doc)
}

func (s *docStore) read() (*Document, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	doc := new(Document)
	if err := json.Unmarshal(data, doc); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return doc, nil
}

// write serializes the whole document and replaces the file via a temp file
// and rename, so readers never observe a torn document.
func (s *docStore) write(doc *Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp document: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close document: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace document: %w", err)
	}
	return nil
}

// appendEntries performs one durable flush: read the current document,
// append the buffered entries, and write the whole document back.
func (s *docStore) appendEntries(entries []Entry) error {
	doc, err := s.read()
	if err != nil {
		return err
	}
	doc.Messages = append(doc.Messages, entries...)
	return s.write(doc)
}
