package templates

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func compareValues(expected, seen Values) bool {
	if len(expected.Values) != len(seen.Values) {
		return false
	}
	for key, expectedVal := range expected.Values {
		seenVal, ok := seen.Values[key]
		if !ok || seenVal != expectedVal {
			return false
		}
	}
	return true
}

func TestParseValues(t *testing.T) {
	td := []struct {
		yaml     []byte
		expected Values
	}{
		{
			[]byte(""),
			Values{Values: map[string]string{}},
		},
		{
			[]byte("foo: hello"),
			Values{Values: map[string]string{"foo": "hello"}},
		},
		{
			[]byte("foo: 7.3"),
			Values{Values: map[string]string{"foo": "7.3"}},
		},
	}

	for ix, test := range td {
		name, seen, err := parseValues("./test.vars", test.yaml)
		if err != nil {
			t.Errorf("Test case %d, error: %s", ix, err)
		}
		if name != "test" {
			t.Errorf("Test case %d, saw context %s, expected test", ix, name)
		}
		if !compareValues(test.expected, seen) {
			t.Errorf("Test case %d, seen and expected do not match (seen: %v  expected: %v)", ix, seen, test.expected)
		}
	}
}

func TestMergeValues(t *testing.T) {
	a := Values{Values: map[string]string{
		"a": "foo",
		"b": "bar",
		"c": "xyzzy",
	}}
	b := Values{Values: map[string]string{
		"b": "overridden",
	}}
	c := Values{Values: map[string]string{
		"c": "overridden",
	}}

	cases := []struct {
		first    Values
		second   Values
		expected Values
	}{
		{a, b, Values{Values: map[string]string{"a": "foo", "b": "overridden", "c": "xyzzy"}}},
		{a, c, Values{Values: map[string]string{"a": "foo", "b": "bar", "c": "overridden"}}},
		{b, c, Values{Values: map[string]string{"b": "overridden", "c": "overridden"}}},
		{Values{}, Values{}, Values{Values: map[string]string{}}},
	}

	for ix, test := range cases {
		seen := mergeValues(test.first, test.second)
		if !compareValues(test.expected, seen) {
			t.Errorf("Test case %d, seen and expected do not match (seen: %v  expected: %v)", ix, seen, test.expected)
		}
	}
}

func TestLoad(t *testing.T) {
	set, err := Load("testdata/testdir1")
	require.NoError(t, err)

	assert.Equal(t, "testdata/testdir1", set.sourceDir)
	assert.Equal(t, []string{"context1", "default"}, set.Contexts())
	assert.Len(t, set.templates, 1)
}

func TestExpandContext1(t *testing.T) {
	DefaultTempDirectory = t.TempDir()

	exp, err := Expand("testdata/testdir1", "context1")
	require.NoError(t, err)
	defer exp.Cleanup()

	assert.Equal(t, "context1", exp.Context)
	assert.Equal(t, []string{"load.yaml", filepath.Join("tests", "load_test.yaml")}, exp.Files)

	for _, name := range exp.Files {
		seen, err := os.ReadFile(filepath.Join(exp.Directory, name))
		require.NoError(t, err)
		expected, err := os.ReadFile(filepath.Join("testdata/expected/testdir1-context1", name))
		require.NoError(t, err)
		assert.Equal(t, string(expected), string(seen), "file %s differs", name)
	}

	exp.Cleanup()
	_, err = os.Stat(exp.Directory)
	assert.True(t, os.IsNotExist(err))
}

func TestExpandUnknownContextUsesDefaults(t *testing.T) {
	DefaultTempDirectory = t.TempDir()

	exp, err := Expand("testdata/testdir1", "elsewhere")
	require.NoError(t, err)
	defer exp.Cleanup()

	seen, err := os.ReadFile(filepath.Join(exp.Directory, "load.yaml"))
	require.NoError(t, err)
	assert.Contains(t, string(seen), "name: load-elsewhere")
	assert.Contains(t, string(seen), "node_load1 > 0.9")
}

func TestExpandBadTemplate(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("<{[ .Values.x "), 0644))

	_, err := Load(dir)
	assert.Error(t, err)
}
