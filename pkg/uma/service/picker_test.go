package service_test

import (
	"testing"

	"github.com/latoulicious/umaroster/pkg/uma/service"
	"github.com/stretchr/testify/assert"
)

func TestPicker_CapRejectsExtraAdds(t *testing.T) {
	picker := service.NewInspirationPicker()

	assert.True(t, picker.Toggle(5))
	assert.True(t, picker.Toggle(9))
	assert.False(t, picker.Toggle(12))

	assert.Equal(t, []int{5, 9}, picker.Selected())
	assert.True(t, picker.Full())
	assert.False(t, picker.Contains(12))
}

func TestPicker_RemovalIsAlwaysAllowed(t *testing.T) {
	picker := service.NewPicker[int](2)
	picker.Toggle(5)
	picker.Toggle(9)

	assert.False(t, picker.Toggle(5))
	assert.Equal(t, []int{9}, picker.Selected())

	assert.True(t, picker.Toggle(12))
	assert.Equal(t, []int{9, 12}, picker.Selected())
}

func TestPicker_ResetSeedsSelection(t *testing.T) {
	picker := service.NewInspirationPicker()
	picker.Toggle(1)

	picker.Reset([]int{4, 4, 7, 8})

	assert.Equal(t, []int{4, 7}, picker.Selected(), "duplicates collapse and the cap still applies")
	assert.Equal(t, 2, picker.Len())

	picker.Reset(nil)
	assert.Empty(t, picker.Selected())
}

func TestPicker_SparkPickerIsUncapped(t *testing.T) {
	picker := service.NewSparkPicker()
	for id := 1; id <= 20; id++ {
		assert.True(t, picker.Toggle(id))
	}

	assert.Equal(t, 20, picker.Len())
	assert.Equal(t, 0, picker.Cap())
	assert.False(t, picker.Full())
}

func TestPicker_SelectedIsACopy(t *testing.T) {
	picker := service.NewPicker[string](0)
	picker.Toggle("a")

	selected := picker.Selected()
	selected[0] = "z"

	assert.True(t, picker.Contains("a"))
	assert.Equal(t, []string{"a"}, picker.Selected())
}
