package item

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "apps", want: CategoryApps},
		{in: " Privacy ", want: CategoryPrivacy},
		{in: "UPDATES", want: CategoryUpdates},
		{in: "drivers", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseCategory(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestItem_Validate(t *testing.T) {
	assert.NoError(t, Item{ID: "a", Action: "do"}.Validate())
	assert.Error(t, Item{ID: " ", Action: "do"}.Validate())
	assert.Error(t, Item{ID: "a", Action: "  "}.Validate())
}

func TestItem_Reversible(t *testing.T) {
	assert.False(t, Item{ID: "a"}.Reversible())
	assert.True(t, Item{ID: "a", RollbackAction: "undo"}.Reversible())
}

func TestIDSet(t *testing.T) {
	s := NewIDSet("b", "a", "b")
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, []string{"a", "b"}, s.Sorted())

	c := s.Clone()
	delete(c, "a")
	assert.True(t, s.Has("a"), "clone must not alias the original")

	var nilSet IDSet
	assert.NotNil(t, nilSet.Clone())
	assert.Empty(t, nilSet.Sorted())
}

func TestIDSet_FilterKeepsItemOrder(t *testing.T) {
	items := []Item{{ID: "x"}, {ID: "y"}, {ID: "z"}}
	got := NewIDSet("z", "x").Filter(items)
	assert.Equal(t, []string{"x", "z"}, IDs(got))
}

func TestDuplicateIDs(t *testing.T) {
	items := []Item{{ID: "a"}, {ID: "b"}, {ID: "a"}, {ID: "c"}, {ID: "a"}, {ID: "b"}}
	assert.Equal(t, []string{"a", "b"}, DuplicateIDs(items))
	assert.Empty(t, DuplicateIDs([]Item{{ID: "a"}, {ID: "b"}}))
	assert.Empty(t, DuplicateIDs(nil))
}
