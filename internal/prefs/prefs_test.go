package prefs

import (
	"reflect"
	"testing"

	"howett.net/plist"
)

// displayEntry builds a display config dict with a LinkDescription block.
func displayEntry(uuid string, pixelEncoding, rng interface{}) map[string]interface{} {
	link := map[string]interface{}{}
	if pixelEncoding != nil {
		link[KeyPixelEncoding] = pixelEncoding
	}
	if rng != nil {
		link[KeyRange] = rng
	}
	return map[string]interface{}{
		"UUID":             uuid,
		KeyLinkDescription: link,
	}
}

// prefsTree nests entries the way the windowserver plist does:
// DisplayAnyUserSets -> Configs -> groups of config dicts.
func prefsTree(entries ...interface{}) map[string]interface{} {
	return map[string]interface{}{
		"DisplayAnyUserSets": map[string]interface{}{
			"Configs": []interface{}{entries},
		},
	}
}

func TestPatch_ForcesRGBTargets(t *testing.T) {
	entry := displayEntry("ABC-123", uint64(1), uint64(0))
	root := prefsTree(entry)

	patches := Patch(root)
	if len(patches) != 1 {
		t.Fatalf("expected 1 patch, got %d", len(patches))
	}
	p := patches[0]
	if p.DisplayUUID != "ABC-123" {
		t.Errorf("display uuid: got %q, want %q", p.DisplayUUID, "ABC-123")
	}
	if !p.Changed {
		t.Error("expected entry to be reported as changed")
	}

	link := entry[KeyLinkDescription].(map[string]interface{})
	if got := link[KeyPixelEncoding]; got != uint64(TargetPixelEncoding) {
		t.Errorf("PixelEncoding: got %v, want %d", got, TargetPixelEncoding)
	}
	if got := link[KeyRange]; got != uint64(TargetRange) {
		t.Errorf("Range: got %v, want %d", got, TargetRange)
	}
}

func TestPatch_ReportsBeforeAfter(t *testing.T) {
	root := prefsTree(displayEntry("D1", uint64(2), uint64(1)))

	patches := Patch(root)
	if len(patches) != 1 {
		t.Fatalf("expected 1 patch, got %d", len(patches))
	}

	want := []FieldChange{
		{Field: KeyPixelEncoding, Before: "2", After: "0"},
		{Field: KeyRange, Before: "1", After: "1"},
	}
	if !reflect.DeepEqual(patches[0].Changes, want) {
		t.Errorf("changes:\n got %+v\nwant %+v", patches[0].Changes, want)
	}
	// Range was already 1; PixelEncoding still changed.
	if !patches[0].Changed {
		t.Error("expected Changed=true when PixelEncoding differs")
	}
}

func TestPatch_SelectiveMutation(t *testing.T) {
	marked := displayEntry("D1", uint64(1), uint64(0))
	unmarked := map[string]interface{}{
		"UUID":   "D2",
		"Height": uint64(1080),
		"Width":  uint64(1920),
	}
	root := prefsTree(marked, unmarked)

	before := map[string]interface{}{}
	for k, v := range unmarked {
		before[k] = v
	}

	patches := Patch(root)
	if len(patches) != 1 {
		t.Fatalf("expected 1 patch, got %d", len(patches))
	}
	if !reflect.DeepEqual(unmarked, before) {
		t.Errorf("entry without marker was modified:\n got %+v\nwant %+v", unmarked, before)
	}
}

func TestPatch_AlreadyAtTarget(t *testing.T) {
	root := prefsTree(displayEntry("D1", uint64(0), uint64(1)))

	patches := Patch(root)
	if len(patches) != 1 {
		t.Fatalf("expected 1 patch, got %d", len(patches))
	}
	if patches[0].Changed {
		t.Error("expected Changed=false when values already match targets")
	}
}

func TestPatch_MissingFieldsAreSet(t *testing.T) {
	root := prefsTree(displayEntry("D1", nil, nil))

	patches := Patch(root)
	if len(patches) != 1 {
		t.Fatalf("expected 1 patch, got %d", len(patches))
	}
	if !patches[0].Changed {
		t.Error("expected Changed=true when fields were missing")
	}
	if got := patches[0].Changes[0].Before; got != "unset" {
		t.Errorf("before value: got %q, want %q", got, "unset")
	}
}

func TestPatch_MarkerMustBeDict(t *testing.T) {
	root := prefsTree(map[string]interface{}{
		"UUID":             "D1",
		KeyLinkDescription: "not-a-dict",
	})

	if patches := Patch(root); len(patches) != 0 {
		t.Errorf("expected no patches for malformed marker, got %d", len(patches))
	}
}

func TestPatch_DeeplyNestedEntries(t *testing.T) {
	// Two display groups, entries at different nesting levels.
	root := map[string]interface{}{
		"DisplayAnyUserSets": map[string]interface{}{
			"Configs": []interface{}{
				[]interface{}{displayEntry("D1", uint64(1), uint64(0))},
				[]interface{}{displayEntry("D2", uint64(1), uint64(0))},
			},
		},
	}

	patches := Patch(root)
	if len(patches) != 2 {
		t.Fatalf("expected 2 patches, got %d", len(patches))
	}
}

func TestDecodeEncode_RoundTrip(t *testing.T) {
	root := prefsTree(displayEntry("D1", 1, 0))
	data, err := Encode(root, plist.XMLFormat)
	if err != nil {
		t.Fatal(err)
	}

	decoded, format, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	if format != plist.XMLFormat {
		t.Errorf("format: got %d, want %d", format, plist.XMLFormat)
	}

	patches := Patch(decoded)
	if len(patches) != 1 || !patches[0].Changed {
		t.Fatalf("unexpected patches after round trip: %+v", patches)
	}

	// Second encode/decode cycle must come back already at target.
	data2, err := Encode(decoded, format)
	if err != nil {
		t.Fatal(err)
	}
	decoded2, _, err := Decode(data2)
	if err != nil {
		t.Fatal(err)
	}
	patches2 := Patch(decoded2)
	if len(patches2) != 1 || patches2[0].Changed {
		t.Fatalf("expected up-to-date entry after second cycle: %+v", patches2)
	}
}

func TestDecode_InvalidBytes(t *testing.T) {
	if _, _, err := Decode([]byte("definitely not a plist")); err == nil {
		t.Error("expected error for invalid plist bytes")
	}
}

func TestIntValue(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want int64
		ok   bool
	}{
		{"int", 3, 3, true},
		{"int64", int64(-2), -2, true},
		{"uint64", uint64(7), 7, true},
		{"float64", float64(1), 1, true},
		{"string", "1", 0, false},
		{"nil", nil, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := intValue(tt.in)
			if got != tt.want || ok != tt.ok {
				t.Errorf("intValue(%v) = (%d, %v), want (%d, %v)", tt.in, got, ok, tt.want, tt.ok)
			}
		})
	}
}
