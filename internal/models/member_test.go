package models

import "testing"

func TestGroupType(t *testing.T) {
	for _, gt := range []GroupType{GroupTypeFriends, GroupTypeFollowers, GroupTypeList} {
		got, ok := ParseGroupType(gt.String())
		if !ok || got != gt {
			t.Errorf("ParseGroupType(%q) = %v, %v", gt.String(), got, ok)
		}
	}

	if _, ok := ParseGroupType("circle"); ok {
		t.Error("unknown type should not parse")
	}
	if s := GroupType(9).String(); s != "GroupType(9)" {
		t.Errorf("unexpected string for unknown type: %s", s)
	}
}

func TestMemberKey(t *testing.T) {
	tests := []struct {
		name string
		a, b Member
		same bool
	}{
		{"same id", Member{ID: "1", Handle: "a"}, Member{ID: "1", Handle: "b"}, true},
		{"different id", Member{ID: "1", Handle: "a"}, Member{ID: "2", Handle: "a"}, false},
		{"handle case", Member{Handle: "Vain0x"}, Member{Handle: "vain0x"}, true},
		{"id versus handle", Member{ID: "1"}, Member{Handle: "1"}, false},
		{"id-bearing versus handle-only", Member{ID: "1", Handle: "vain0x"}, Member{Handle: "vain0x"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Key() == tt.b.Key(); got != tt.same {
				t.Errorf("Key equality = %v, want %v", got, tt.same)
			}
		})
	}
}

func TestPersistedSnapshotValidate(t *testing.T) {
	key := GroupKey{Type: GroupTypeList, OwnerHandle: "vain0x", Slug: "tech"}

	valid := NewPersistedSnapshot(0, key, "@vain0x/tech", SnapshotExport, 2, []byte("[]"))
	if err := valid.Validate(); err != nil {
		t.Errorf("expected valid snapshot, got %v", err)
	}

	tests := []struct {
		name string
		s    *PersistedSnapshot
	}{
		{"missing path", NewPersistedSnapshot(0, key, "", SnapshotExport, 0, nil)},
		{"missing owner", NewPersistedSnapshot(0, GroupKey{Type: GroupTypeList, Slug: "tech"}, "tech", SnapshotExport, 0, nil)},
		{"bad kind", NewPersistedSnapshot(0, key, "@vain0x/tech", SnapshotKind("backup"), 0, nil)},
		{"negative count", NewPersistedSnapshot(0, key, "@vain0x/tech", SnapshotPreImport, -1, nil)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.s.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
