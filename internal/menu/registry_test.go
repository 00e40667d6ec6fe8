package menu

import "testing"

func TestBuildRegistryWiresCityTree(t *testing.T) {
	reg := BuildRegistry()
	if reg.Root().Loader == nil || reg.Root().Action == nil {
		t.Fatalf("root should load cities and choose rows")
	}
	cases := []struct {
		parent, key, id string
	}{
		{"root", "city", "city"},
		{"root", "add", "add"},
		{"root", "help", "help"},
		{"city", "edit", "city:edit"},
		{"city", "delete", "city:delete"},
		{"city:delete", "confirm", "city:delete:confirm"},
		{"city:delete", "cancel", "city:delete:cancel"},
	}
	for _, tc := range cases {
		node, ok := reg.Child(tc.parent, tc.key)
		if !ok {
			t.Fatalf("missing child %s under %s", tc.key, tc.parent)
		}
		if node.ID != tc.id {
			t.Fatalf("unexpected id %s, want %s", node.ID, tc.id)
		}
	}
	if node, _ := reg.Find("city:delete"); node.Title == nil || node.Loader == nil {
		t.Fatalf("confirm level needs a title and loader")
	}
}

func TestParentKey(t *testing.T) {
	tests := []struct {
		id, parent, key string
	}{
		{"city", "root", "city"},
		{"city:delete", "city", "delete"},
		{"city:delete:confirm", "city:delete", "confirm"},
	}
	for _, tt := range tests {
		parent, key := parentKey(tt.id)
		if parent != tt.parent || key != tt.key {
			t.Fatalf("parentKey(%q) = %q, %q", tt.id, parent, key)
		}
	}
}
