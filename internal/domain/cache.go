package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"
)

// TagRecord tracks the last revision a tag was seen pointing at and whether
// the configured command has completed for exactly that revision.
type TagRecord struct {
	ID        string
	Processed bool

	extra map[string]json.RawMessage
}

// MarshalJSON writes the record with its known fields first, then any
// preserved unknown fields sorted by key.
func (r *TagRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"id":`)
	id, err := json.Marshal(r.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tag record id: %w", err)
	}
	buf.Write(id)
	buf.WriteString(`,"processed":`)
	if r.Processed {
		buf.WriteString("true")
	} else {
		buf.WriteString("false")
	}
	for _, key := range slices.Sorted(maps.Keys(r.extra)) {
		name, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tag record field name: %w", err)
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(r.extra[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads the known fields and keeps everything else verbatim so
// a cache written by a newer version survives a round trip.
func (r *TagRecord) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return fmt.Errorf("failed to unmarshal tag record: %w", err)
	}
	if raw, ok := fields["id"]; ok {
		if err := json.Unmarshal(raw, &r.ID); err != nil {
			return fmt.Errorf("failed to unmarshal tag record id: %w", err)
		}
		delete(fields, "id")
	}
	if raw, ok := fields["processed"]; ok {
		if err := json.Unmarshal(raw, &r.Processed); err != nil {
			return fmt.Errorf("failed to unmarshal tag record processed flag: %w", err)
		}
		delete(fields, "processed")
	}
	r.extra = nil
	if len(fields) > 0 {
		r.extra = fields
	}
	return nil
}

// TagCache is the durable record of known tags and their processing state.
// Iteration order is insertion order; it fixes the sequence tags are
// processed in, so mutations never reorder surviving entries.

type TagCache struct {
	records map[string]*TagRecord
	order   []string
	extra   map[string]json.RawMessage
}

// NewTagCache returns an empty cache.
func NewTagCache() *TagCache {
	return &TagCache{records: make(map[string]*TagRecord)}
}

// Len returns the number of tracked tags.
func (c *TagCache) Len() int {
	return len(c.order)
}

// Get returns the record bound to a tag name.
func (c *TagCache) Get(name string) (*TagRecord, bool) {
	record, ok := c.records[name]
	return record, ok
}

// Set binds a tag name to a revision with a fresh unprocessed record. A new
// name appends to the iteration order; an existing name keeps its position.
// The processed flag always restarts false, so a moved tag runs again
// against its new revision.
func (c *TagCache) Set(name, revisionID string) {
	if _, ok := c.records[name]; !ok {
		c.order = append(c.order, name)
	}
	c.records[name] = &TagRecord{ID: revisionID}
}

// Delete forgets a tag. Unknown names are ignored.
func (c *TagCache) Delete(name string) {
	if _, ok := c.records[name]; !ok {
		return
	}
	delete(c.records, name)
	c.order = slices.DeleteFunc(c.order, func(n string) bool { return n == name })
}

// MarkProcessed records that the command completed for the tag's current
// revision. It reports false when the tag is not tracked.
func (c *TagCache) MarkProcessed(name string) bool {
	record, ok := c.records[name]
	if !ok {
		return false
	}
	record.Processed = true
	return true
}

// Walk yields tags with their records in processing order.
func (c *TagCache) Walk() iter.Seq2[string, *TagRecord] {
	return func(yield func(string, *TagRecord) bool) {
		for _, name := range c.order {
			if !yield(name, c.records[name]) {
				return
			}
		}
	}
}

// Names returns the tag names in processing order.
func (c *TagCache) Names() []string {
	return slices.Clone(c.order)
}

// MarshalJSON writes the cache as a single object whose "tags" member lists
// records in processing order. Unknown top-level members from a previous
// load follow, sorted by key.
func (c *TagCache) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"tags":{`)
	for i, name := range c.order {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal tag name: %w", err)
		}
		buf.Write(key)
		buf.WriteByte(':')
		record, err := json.Marshal(c.records[name])
		if err != nil {
			return nil, err
		}
		buf.Write(record)
	}
	buf.WriteByte('}')
	for _, key := range slices.Sorted(maps.Keys(c.extra)) {
		name, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal cache field name: %w", err)
		}
		buf.WriteByte(',')
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(c.extra[key])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a cache, preserving the member order of "tags" as the
// processing order and keeping unknown members for the next write.
func (c *TagCache) UnmarshalJSON(data []byte) error {
	c.records = make(map[string]*TagRecord)
	c.order = nil
	c.extra = nil
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("failed to unmarshal cache: %w", err)
	}
	for dec.More() {
		key, err := decodeKey(dec)
		if err != nil {
			return fmt.Errorf("failed to unmarshal cache: %w", err)
		}
		if key == "tags" {
			if err := c.decodeTags(dec); err != nil {
				return err
			}
			continue
		}
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("failed to unmarshal cache field %q: %w", key, err)
		}
		if c.extra == nil {
			c.extra = make(map[string]json.RawMessage)
		}
		c.extra[key] = raw
	}
	if err := expectDelim(dec, '}'); err != nil {
		return fmt.Errorf("failed to unmarshal cache: %w", err)
	}
	return nil
}

// decodeTags consumes the "tags" object, appending records as they appear.
func (c *TagCache) decodeTags(dec *json.Decoder) error {
	if err := expectDelim(dec, '{'); err != nil {
		return fmt.Errorf("failed to unmarshal tag map: %w", err)
	}
	for dec.More() {
		name, err := decodeKey(dec)
		if err != nil {
			return fmt.Errorf("failed to unmarshal tag map: %w", err)
		}
		record := &TagRecord{}
		if err := dec.Decode(record); err != nil {
			return fmt.Errorf("failed to unmarshal record for tag %q: %w", name, err)
		}
		if _, ok := c.records[name]; !ok {
			c.order = append(c.order, name)
		}
		c.records[name] = record
	}
	if err := expectDelim(dec, '}'); err != nil {
		return fmt.Errorf("failed to unmarshal tag map: %w", err)
	}
	return nil
}

// expectDelim consumes one token and checks it is the given delimiter.
func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	delim, ok := tok.(json.Delim)
	if !ok || delim != want {
		return fmt.Errorf("expected %q, got %v", want, tok)
	}
	return nil
}

// decodeKey consumes one object key token.
func decodeKey(dec *json.Decoder) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", err
	}
	key, ok := tok.(string)
	if !ok {
		return "", fmt.Errorf("expected object key, got %v", tok)
	}
	return key, nil
}
