package rulefmt

import (
	"testing"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		groups RuleGroups
		fail   bool
	}{
		{RuleGroups{Groups: []RuleGroup{{Name: "a", Rules: []Rule{{Alert: "A", Expr: "up"}}}}}, false},
		{RuleGroups{Groups: []RuleGroup{{Name: "a", Rules: []Rule{{Record: "r", Expr: "up"}}}}}, false},
		{RuleGroups{Groups: []RuleGroup{{Name: "a"}}}, false},
		{RuleGroups{Groups: []RuleGroup{{Name: "", Rules: []Rule{{Alert: "A", Expr: "up"}}}}}, true},
		{RuleGroups{Groups: []RuleGroup{{Name: "a"}, {Name: "a"}}}, true},
		{RuleGroups{Groups: []RuleGroup{{Name: "a", Rules: []Rule{{Alert: "A"}}}}}, true},
		{RuleGroups{Groups: []RuleGroup{{Name: "a", Rules: []Rule{{Expr: "up"}}}}}, true},
		{RuleGroups{Groups: []RuleGroup{{Name: "a", Rules: []Rule{{Alert: "A", Record: "r", Expr: "up"}}}}}, true},
		{RuleGroups{Groups: []RuleGroup{{Name: "a", Rules: []Rule{{Record: "r", Expr: "up", For: "5m"}}}}}, true},
	}

	for ix, td := range cases {
		err := td.groups.Validate()
		if (err != nil) != td.fail {
			t.Errorf("Case #%d, (err != nil) is %v, expected %v (err: %v)", ix, err != nil, td.fail, err)
		}
	}
}
