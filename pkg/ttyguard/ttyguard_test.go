package ttyguard

import "testing"

func TestShouldSuppress(t *testing.T) {
	tests := []struct {
		name  string
		args  []string
		robot bool
		want  bool
	}{
		{"interactive", []string{"mb"}, false, false},
		{"model flag", []string{"mb", "--model", "x"}, false, false},
		{"robot tree", []string{"mb", "--robot-tree"}, false, true},
		{"single dash robot", []string{"mb", "-robot-tree"}, false, true},
		{"version", []string{"mb", "--version"}, false, true},
		{"help", []string{"mb", "-h"}, false, true},
		{"env", []string{"mb"}, true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShouldSuppress(tt.args, tt.robot); got != tt.want {
				t.Errorf("ShouldSuppress(%v, %v) = %v, want %v", tt.args, tt.robot, got, tt.want)
			}
		})
	}
}
