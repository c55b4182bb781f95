// internal/matching/policy_test.go
package matching

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadKeywordTableFromFile(t *testing.T) {
	t.Run("merges file entries over defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "keywords.json")
		content := `{"diploma": ["vocational", "technical"], "master": ["masters programme"]}`
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

		table, err := LoadKeywordTableFromFile(path)

		assert.NoError(t, err)
		assert.Equal(t, []string{"vocational", "technical"}, table["diploma"])
		assert.Equal(t, []string{"masters programme"}, table["master"])
		// Untouched defaults survive
		assert.Equal(t, []string{"undergraduate", "bachelor"}, table["bachelor"])
	})

	t.Run("missing file falls back to defaults", func(t *testing.T) {
		table, err := LoadKeywordTableFromFile(filepath.Join(t.TempDir(), "nope.json"))

		assert.Error(t, err)
		assert.Equal(t, DefaultEducationKeywords(), table)
	})

	t.Run("malformed file falls back to defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

		table, err := LoadKeywordTableFromFile(path)

		assert.Error(t, err)
		assert.Equal(t, DefaultEducationKeywords(), table)
	})
}
