package hxwidget

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
)

const widgetIDPrefix = "$$WID-"

// Fingerprint returns a deterministic hash of a widget's semantic
// configuration. Map keys are sorted before hashing, so equal
// configurations always produce the same fingerprint.
func Fingerprint(config any) (string, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(config); err != nil {
		return "", configErrorf("fingerprint: %v", err)
	}
	h := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(h[:]), nil
}

// ComputeID derives a widget's identity.
//
// With a user key the id depends only on kind, key and form, so the
// configuration can change without losing the widget's state. Without a
// key the fingerprint is hashed in as well, so two differently configured
// widgets get different ids.
func ComputeID(kind, userKey, formID, fingerprint string) WidgetID {
	parts := []string{kind, userKey, formID}
	if userKey == "" {
		parts = append(parts, fingerprint)
	}
	h := sha256.Sum256([]byte(strings.Join(parts, "\x00")))
	id := widgetIDPrefix + hex.EncodeToString(h[:16])
	if userKey != "" {
		id += "-" + userKey
	}
	return WidgetID(id)
}

// UserKeyFromID extracts the user key embedded in a widget id, if any.
func UserKeyFromID(id WidgetID) string {
	s := strings.TrimPrefix(string(id), widgetIDPrefix)
	if len(s) <= 32 || s[32] != '-' {
		return ""
	}
	return s[33:]
}

// IDTracker records the widget ids and user keys declared during one
// script run.
type IDTracker struct {
	ids  map[WidgetID]struct{}
	keys map[string]WidgetID
}

// NewIDTracker creates an empty tracker.
func NewIDTracker() *IDTracker {
	return &IDTracker{
		ids:  make(map[WidgetID]struct{}),
		keys: make(map[string]WidgetID),
	}
}

// Track records id for the current run. It fails if the id, or the user
// key, was already declared in this run.
func (t *IDTracker) Track(id WidgetID, kind, userKey string) error {
	if _, exists := t.ids[id]; exists {
		return &DuplicateWidgetIDError{ID: id, Kind: kind, UserKey: userKey}
	}
	if userKey != "" {
		if _, exists := t.keys[userKey]; exists {
			return &DuplicateWidgetIDError{ID: id, Kind: kind, UserKey: userKey}
		}
		t.keys[userKey] = id
	}
	t.ids[id] = struct{}{}
	return nil
}

// Seen reports whether id was tracked in this run.
func (t *IDTracker) Seen(id WidgetID) bool {
	_, ok := t.ids[id]
	return ok
}

// KeySeen reports whether a widget with userKey was tracked in this run.
func (t *IDTracker) KeySeen(userKey string) bool {
	_, ok := t.keys[userKey]
	return ok
}

// Len returns the number of ids tracked in this run.
func (t *IDTracker) Len() int {
	return len(t.ids)
}
