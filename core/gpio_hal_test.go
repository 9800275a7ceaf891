package core

import "testing"

func TestLookupPin(t *testing.T) {
	valid := map[string]GPIOPin{"gpio18": 18, "GP19": 19, "22": 22, "GPIO0": 0}
	for name, want := range valid {
		got, err := LookupPin(name)
		if err != nil || got != want {
			t.Errorf("LookupPin(%q): expected %d, got %d (%v)", name, want, got, err)
		}
	}
	for _, name := range []string{"", "gpio", "adc1", "gp1x", "1234"} {
		if _, err := LookupPin(name); err == nil {
			t.Errorf("LookupPin(%q): expected error", name)
		}
	}
}
