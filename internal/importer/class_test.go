package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeClass(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"ป.1", "ป.1"},
		{" ป.6 ", "ป.6"},
		{"ป. 3", "ป.3"},
		{"ป3", "ป.3"},
		{"ป.๔", "ป.4"},
		{"ประถมศึกษาปีที่ 5", "ป.5"},
		{"ประถมศึกษาปีที่ ๒", "ป.2"},
		{"ป.１", "ป.1"},
		{"ม.1", "ม.1"},
		{"ป.7", "ป.7"},
		{"", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeClass(tt.in))
		})
	}
}
