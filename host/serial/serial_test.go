package serial

import "testing"

func TestPickDevice(t *testing.T) {
	testCases := []struct {
		ports []string
		want  string
	}{
		{[]string{"/dev/ttyS0", "/dev/ttyACM1", "/dev/ttyUSB0"}, "/dev/ttyACM1"},
		{[]string{"/dev/cu.Bluetooth-Incoming-Port", "/dev/cu.usbmodem2101"}, "/dev/cu.usbmodem2101"},
		{[]string{"/dev/ttyS0", "/dev/ttyUSB3"}, "/dev/ttyUSB3"},
		{[]string{"COM1"}, "COM1"},
		{[]string{"/dev/ttyS0"}, ""},
		{nil, ""},
	}

	for _, tc := range testCases {
		if got := PickDevice(tc.ports); got != tc.want {
			t.Errorf("PickDevice(%v): expected %q, got %q", tc.ports, tc.want, got)
		}
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig("/dev/ttyACM0")
	if cfg.Baud != 115200 || cfg.ReadTimeout != 100 || cfg.Driver != DriverTarm {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	if _, err := Open(nil); err == nil {
		t.Errorf("Expected error for nil config")
	}
	cfg := DefaultConfig("/dev/null")
	cfg.Driver = "hid"
	if _, err := Open(cfg); err == nil {
		t.Errorf("Expected error for unknown driver")
	}
}
