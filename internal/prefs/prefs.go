// Package prefs understands the shape of com.apple.windowserver.displays.plist
// and rewrites display link settings in a decoded plist tree. It performs no I/O.
package prefs

import (
	"fmt"
	"sort"

	"howett.net/plist"
)

// Keys within a display config dict.
const (
	KeyLinkDescription = "LinkDescription"
	KeyPixelEncoding   = "PixelEncoding"
	KeyRange           = "Range"
	keyUUID            = "UUID"
)

// Target values written into every LinkDescription block.
// PixelEncoding 0 selects RGB (1 is YPbPr); Range 1 selects full range.
const (
	TargetPixelEncoding = 0
	TargetRange         = 1
)

// FieldChange records one field edit within a LinkDescription block.
type FieldChange struct {
	Field  string `yaml:"field"  json:"field"`
	Before string `yaml:"before" json:"before"`
	After  string `yaml:"after"  json:"after"`
}

// EntryPatch is the outcome of patching a single display entry.
type EntryPatch struct {
	DisplayUUID string        `yaml:"display,omitempty" json:"display,omitempty"`
	Changes     []FieldChange `yaml:"changes,omitempty" json:"changes,omitempty"`
	// Changed is false when the entry already held the target values.
	Changed bool `yaml:"changed" json:"changed"`
}

// Decode parses plist bytes into a generic tree, remembering the source
// format so Encode can round-trip binary files as binary.
func Decode(data []byte) (root interface{}, format int, err error) {
	format, err = plist.Unmarshal(data, &root)
	if err != nil {
		return nil, 0, fmt.Errorf("decode plist: %w", err)
	}
	return root, format, nil
}

// Encode serializes a tree back to plist bytes in the given format.
func Encode(root interface{}, format int) ([]byte, error) {
	data, err := plist.Marshal(root, format)
	if err != nil {
		return nil, fmt.Errorf("encode plist: %w", err)
	}
	return data, nil
}

// Patch walks the tree for display entries carrying a LinkDescription block
// and forces PixelEncoding/Range inside each block to the RGB targets,
// mutating the tree in place. It returns one EntryPatch per matched entry,
// in tree order.
func Patch(root interface{}) []EntryPatch {
	var patches []EntryPatch
	walk(root, &patches)
	return patches
}

func walk(node interface{}, patches *[]EntryPatch) {
	switch n := node.(type) {
	case map[string]interface{}:
		if link, ok := asDict(n[KeyLinkDescription]); ok {
			*patches = append(*patches, patchEntry(n, link))
		}
		// Sorted keys keep report order stable across runs.
		keys := make([]string, 0, len(n))
		for k := range n {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			walk(n[k], patches)
		}
	case []interface{}:
		for _, v := range n {
			walk(v, patches)
		}
	}
}

// patchEntry overwrites the two link fields and records before/after values.
func patchEntry(entry, link map[string]interface{}) EntryPatch {
	p := EntryPatch{DisplayUUID: stringValue(entry[keyUUID])}
	p.Changes = []FieldChange{
		setField(link, KeyPixelEncoding, TargetPixelEncoding),
		setField(link, KeyRange, TargetRange),
	}
	for _, c := range p.Changes {
		if c.Before != c.After {
			p.Changed = true
		}
	}
	return p
}

func setField(link map[string]interface{}, key string, target int64) FieldChange {
	c := FieldChange{
		Field:  key,
		Before: formatValue(link[key]),
		After:  formatValue(target),
	}
	// Values land as uint64 when decoded by the plist codec; write the same
	// type back so a re-decoded tree compares equal.
	link[key] = uint64(target)
	return c
}

// asDict returns v as a plist dict.
func asDict(v interface{}) (map[string]interface{}, bool) {
	d, ok := v.(map[string]interface{})
	return d, ok
}

// intValue normalizes the integer representations the plist codec may
// produce for a scalar field.
func intValue(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint64:
		return int64(n), true
	case float64:
		return int64(n), true
	}
	return 0, false
}

func stringValue(v interface{}) string {
	s, _ := v.(string)
	return s
}

// formatValue renders a field value for reporting. Missing fields render
// as "unset" so a dry-run diff stays readable.
func formatValue(v interface{}) string {
	if v == nil {
		return "unset"
	}
	if n, ok := intValue(v); ok {
		return fmt.Sprintf("%d", n)
	}
	return fmt.Sprintf("%v", v)
}
