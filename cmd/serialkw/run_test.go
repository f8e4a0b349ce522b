package main

import (
	"reflect"
	"testing"
)

func TestParseTableLine(t *testing.T) {
	cases := []struct {
		line    string
		keyword string
		args    []string
		ok      bool
	}{
		{"| Add Port | loop:// |", "Add Port", []string{"loop://"}, true},
		{"Add Port | loop://", "Add Port", []string{"loop://"}, true},
		{"| Write Data | ping | ascii |", "Write Data", []string{"ping", "ascii"}, true},
		{"| Delete All Ports |", "Delete All Ports", []string{}, true},
		{"", "", nil, false},
		{"   ", "", nil, false},
		{"# comment line", "", nil, false},
	}
	for _, c := range cases {
		keyword, args, ok := parseTableLine(c.line)
		if keyword != c.keyword || ok != c.ok || !reflect.DeepEqual(args, c.args) {
			t.Errorf("parseTableLine(%q) = %q, %v, %v; want %q, %v, %v",
				c.line, keyword, args, ok, c.keyword, c.args, c.ok)
		}
	}
}
