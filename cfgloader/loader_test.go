package cfgloader

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRuleName(t *testing.T) {
	cases := []struct {
		filename   string
		prometheus string
		expected   string
	}{
		{"blah.yaml", "prom", "prom-blah-rules"},
		{"/tmp/blah.yaml", "prom", "prom-blah-rules"},
		{"/tmp/blah.blah.yaml", "prom", "prom-blah-blah-rules"},
	}

	for ix, td := range cases {
		seen := ruleName(td.filename, td.prometheus)
		if td.expected != seen {
			t.Errorf("Case %d, saw %s expected %s", ix, seen, td.expected)
		}
	}
}

func TestLoadDirectory(t *testing.T) {
	cases := []struct {
		directory string
		fail      bool
		items     int
	}{
		{"testdata/rules", false, 2},
		{"testdata/broken", true, 1},
		{"testdata/empty-dir", true, 0},
		{"angry-wombats", true, 0},
	}

	for ix, test := range cases {
		seen, err := LoadDirectory(test.directory, "namespace", "prometheus-k8s")
		if (err != nil) != test.fail {
			t.Errorf("Case #%d, loading %s, unexpected error status, err != nil is %v, expected %v", ix, test.directory, (err != nil), test.fail)
			if err != nil {
				t.Errorf("  Actual error is %s", err)
			}
		}
		if seen != nil && len(seen.Items) != test.items {
			t.Errorf("Case #%d, loading %s, saw %d items, expected %d", ix, test.directory, len(seen.Items), test.items)
		}
	}
}

func TestLoadDirectoryOrder(t *testing.T) {
	seen, err := LoadDirectory("testdata/rules", "monitoring", "k8s")
	require.NoError(t, err)
	require.Len(t, seen.Items, 2)

	// disk.usage.yaml sorts before node.yaml
	assert.Equal(t, "k8s-disk-usage-rules", seen.Items[0].GetName())
	assert.Equal(t, "k8s-node-rules", seen.Items[1].GetName())

	groups := seen.Items[0].Spec.Groups
	require.Len(t, groups, 2)
	assert.Equal(t, "disk", groups[0].Name)
	assert.Equal(t, "1m", groups[0].Interval)
	assert.Equal(t, "disk-io", groups[1].Name)
}

func TestLoadFile(t *testing.T) {
	cases := []struct {
		filename     string
		namespace    string
		prometheus   string
		expectedName string
		expectedFail bool
	}{
		{"rules/node.yaml", "blah", "testprom", "testprom-node-rules", false},
		{"rules/disk.usage.yaml", "bleh", "prom", "prom-disk-usage-rules", false},
		{"broken/nogroups.yaml", "fail", "fail", "", true},
		{"broken/both.yaml", "fail", "fail", "", true},
		{"broken/notyaml.yaml", "fail", "fail", "", true},
		{"broken/missing.yaml", "fail", "fail", "", true},
	}

	for ix, td := range cases {
		seen, err := LoadFile(filepath.Join("testdata", td.filename), td.namespace, td.prometheus)

		if (err != nil) != td.expectedFail {
			t.Errorf("Case #%d, unexpected error status, (err != nil) is %v, expected %v", ix, err != nil, td.expectedFail)
			if !td.expectedFail {
				t.Errorf("Case #%d, seen error was %s", ix, err)
			}
		}
		if err == nil {
			assert.Equal(t, td.expectedName, seen.GetName(), "case #%d", ix)
			assert.Equal(t, td.namespace, seen.GetNamespace(), "case #%d", ix)
			assert.Equal(t, td.prometheus, seen.GetLabels()["prometheus"], "case #%d", ix)
			assert.Equal(t, "prometheus-rulefiles", seen.GetLabels()["role"], "case #%d", ix)
		}
	}
}

func TestParseRuleSpec(t *testing.T) {
	spec, err := ParseRuleSpec([]byte(`
groups:
  - name: node
    rules:
      - alert: NodeDown
        expr: up == 0
        for: 5m
        labels: {severity: critical}
        annotations: {note: x}
      - record: job:up:sum
        expr: sum by (job) (up)
`))
	require.NoError(t, err)
	require.Len(t, spec.Groups, 1)

	rules := spec.Groups[0].Rules
	require.Len(t, rules, 2)
	assert.Equal(t, "NodeDown", rules[0].Alert)
	assert.Equal(t, "up == 0", rules[0].Expr.String())
	assert.Equal(t, "5m", rules[0].For)
	assert.Equal(t, map[string]string{"severity": "critical"}, rules[0].Labels)
	assert.Equal(t, map[string]string{"note": "x"}, rules[0].Annotations)
	assert.Equal(t, "job:up:sum", rules[1].Record)

	_, err = ParseRuleSpec([]byte("groups: []"))
	assert.Equal(t, ErrNoGroups, err)
}
