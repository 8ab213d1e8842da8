package api

import (
	"io/ioutil"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPathExists(t *testing.T) {

	t.Run("ReturnsTrueForExistingPath", func(t *testing.T) {

		dir := t.TempDir()
		path := filepath.Join(dir, "binary")
		err := ioutil.WriteFile(path, []byte("ELF"), 0755)
		assert.Nil(t, err)

		// act
		exists, err := pathExists(path)

		assert.Nil(t, err)
		assert.True(t, exists)
	})

	t.Run("ReturnsFalseForMissingPath", func(t *testing.T) {

		dir := t.TempDir()

		// act
		exists, err := pathExists(filepath.Join(dir, "binary"))

		assert.Nil(t, err)
		assert.False(t, exists)
	})
}

func TestColorizeStatus(t *testing.T) {

	t.Run("KeepsStatusNameVisibleInsideColorCodes", func(t *testing.T) {

		// act
		colorized := colorizeStatus(TargetStatusFailed)

		assert.Contains(t, colorized, "failed")
	})
}
