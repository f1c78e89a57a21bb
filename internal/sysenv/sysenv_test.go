package sysenv

import "testing"

func TestContainerFromEnviron(t *testing.T) {
	tests := []struct {
		name    string
		environ string
		want    bool
	}{
		{"empty", "", false},
		{"unrelated", "PATH=/bin\x00TERM=linux", false},
		{"lxc", "PATH=/bin\x00container=lxc\x00TERM=linux", true},
		{"explicit none", "container=none", false},
		{"empty marker", "container=", false},
		{"prefix of other key", "containerd=yes", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := containerFromEnviron([]byte(tt.environ)); got != tt.want {
				t.Errorf("containerFromEnviron(%q) = %v, want %v", tt.environ, got, tt.want)
			}
		})
	}
}

func TestIsContainerMarker(t *testing.T) {
	if isContainerMarker("") {
		t.Error("empty string should not be a container marker")
	}
	if isContainerMarker("none") {
		t.Error("\"none\" should not be a container marker")
	}
	if !isContainerMarker("docker") {
		t.Error("\"docker\" should be a container marker")
	}
}
