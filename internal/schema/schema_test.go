package schema

import (
	"io"
	"log/slog"
	"testing"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestValidator_PassingParams(t *testing.T) {
	v, err := NewValidator(testLogger(), map[string]*jsonschema.Schema{
		"build": ArgsSchema("path", "flag"),
	})
	require.NoError(t, err)

	err = v.Validate("build", map[string]string{"path": "/tmp/x", "flag": "true"})
	assert.NoError(t, err)
}

func TestValidator_MissingRequiredArg(t *testing.T) {
	v, err := NewValidator(testLogger(), map[string]*jsonschema.Schema{
		"build": ArgsSchema("path"),
	})
	require.NoError(t, err)

	err = v.Validate("build", map[string]string{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "build")
}

func TestValidator_UnknownToolAlwaysPasses(t *testing.T) {
	v, err := NewValidator(testLogger(), map[string]*jsonschema.Schema{
		"build": ArgsSchema("path"),
	})
	require.NoError(t, err)

	assert.NoError(t, v.Validate("unregistered", map[string]string{"x": "y"}))
}

func TestValidator_NoSchemas(t *testing.T) {
	v, err := NewValidator(testLogger(), nil)
	require.NoError(t, err)

	assert.NoError(t, v.Validate("anything", map[string]string{"a": "b"}))
}

func TestArgsSchema(t *testing.T) {
	s := ArgsSchema("path", "flag")

	assert.Equal(t, "object", s.Type)
	assert.Len(t, s.Properties, 2)
	assert.ElementsMatch(t, []string{"path", "flag"}, s.Required)
	assert.Equal(t, "string", s.Properties["path"].Type)
}
