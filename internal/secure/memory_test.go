package secure

import (
	"testing"
)

func TestZero(t *testing.T) {
	testCases := []struct {
		name string
		data []byte
	}{
		{"nil slice", nil},
		{"empty slice", []byte{}},
		{"master secret", []byte("correct horse battery staple")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			Zero(tc.data)

			for i, b := range tc.data {
				if b != 0 {
					t.Errorf("Byte at index %d was not zeroed, expected 0, got %d", i, b)
				}
			}
		})
	}
}

func TestZeroAll(t *testing.T) {
	data1 := []byte("secret1")
	data2 := []byte("secret2")
	ZeroAll(data1, data2, nil)

	for i, b := range append(data1, data2...) {
		if b != 0 {
			t.Errorf("Byte at index %d was not zeroed", i)
		}
	}
}

func TestClone(t *testing.T) {
	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}

	orig := []byte("secret")
	c := Clone(orig)
	Zero(c)

	if string(orig) != "secret" {
		t.Errorf("zeroing the clone modified the original: %q", orig)
	}
}

func TestEqual(t *testing.T) {
	tests := map[string]struct {
		a, b []byte
		want bool
	}{
		"identical":       {[]byte("hunter2"), []byte("hunter2"), true},
		"different":       {[]byte("hunter2"), []byte("hunter3"), false},
		"different sizes": {[]byte("hunter2"), []byte("hunter22"), false},
		"both empty":      {nil, []byte{}, true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			if got := Equal(tt.a, tt.b); got != tt.want {
				t.Errorf("Equal() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTrimNewline(t *testing.T) {
	tests := map[string]struct {
		in   string
		want string
	}{
		"unix newline":    {"secret\n", "secret"},
		"windows newline": {"secret\r\n", "secret"},
		"no newline":      {"secret", "secret"},
		"bare carriage":   {"secret\r", "secret\r"},
		"empty":           {"", ""},
		"only newline":    {"\n", ""},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			buf := []byte(tt.in)
			got := TrimNewline(buf)
			if string(got) != tt.want {
				t.Errorf("TrimNewline(%q) = %q, want %q", tt.in, got, tt.want)
			}
			for i := len(got); i < len(buf); i++ {
				if buf[i] != 0 {
					t.Errorf("trailing byte %d not zeroed", i)
				}
			}
		})
	}
}
