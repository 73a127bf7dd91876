package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestImageListRoundTrip(t *testing.T) {
	lists := []ImageList{
		{},
		{"a.png"},
		{"img_1.png", "img_2.jpg", "img_3.webp"},
	}

	for _, original := range lists {
		value, err := original.Value()
		assert.NoError(t, err)

		var decoded ImageList
		err = decoded.Scan(value)
		assert.NoError(t, err)
		assert.Equal(t, original, decoded)
	}
}

func TestImageListScanNil(t *testing.T) {
	var images ImageList
	err := images.Scan(nil)
	assert.NoError(t, err)
	assert.Equal(t, ImageList{}, images)
}

func TestImageListScanEmptyString(t *testing.T) {
	var images ImageList
	err := images.Scan("")
	assert.NoError(t, err)
	assert.Equal(t, ImageList{}, images)
}

func TestImageListScanString(t *testing.T) {
	var images ImageList
	err := images.Scan(`["a.png","b.png"]`)
	assert.NoError(t, err)
	assert.Equal(t, ImageList{"a.png", "b.png"}, images)
}

func TestImageListNilValueEncodesEmptyList(t *testing.T) {
	var images ImageList
	value, err := images.Value()
	assert.NoError(t, err)
	assert.Equal(t, []byte("[]"), value)
}

func TestImageListContains(t *testing.T) {
	images := ImageList{"a.png", "b.png"}
	assert.True(t, images.Contains("a.png"))
	assert.False(t, images.Contains("c.png"))
}

func TestStatusIsValid(t *testing.T) {
	assert.True(t, StatusTodo.IsValid())
	assert.True(t, StatusProgress.IsValid())
	assert.True(t, StatusDone.IsValid())
	assert.False(t, Status("archived").IsValid())
	assert.False(t, Status("").IsValid())
}

func TestColumnIndex(t *testing.T) {
	assert.Equal(t, 0, ColumnIndex(StatusTodo))
	assert.Equal(t, 1, ColumnIndex(StatusProgress))
	assert.Equal(t, 2, ColumnIndex(StatusDone))
	assert.Equal(t, -1, ColumnIndex(Status("archived")))
}
