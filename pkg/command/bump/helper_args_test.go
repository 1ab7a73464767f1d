package bump

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReorderArgs(t *testing.T) {
	appFlags := flags()

	tests := []struct {
		name string
		args []string
		want []string
	}{
		{
			name: "no arguments",
			args: []string{"bumpbuild"},
			want: []string{"bumpbuild"},
		},
		{
			name: "flags first",
			args: []string{"bumpbuild", "-m", "a.h"},
			want: []string{"bumpbuild", "-m", "--", "a.h"},
		},
		{
			name: "flags after file",
			args: []string{"bumpbuild", "a.h", "-v", "-u"},
			want: []string{"bumpbuild", "-v", "-u", "--", "a.h"},
		},
		{
			name: "value flag keeps its value",
			args: []string{"bumpbuild", "a.h", "--keyfile", "id_rsa", "b.h"},
			want: []string{"bumpbuild", "--keyfile", "id_rsa", "--", "a.h", "b.h"},
		},
		{
			name: "inline value",
			args: []string{"bumpbuild", "a.h", "--author-name=someone"},
			want: []string{"bumpbuild", "--author-name=someone", "--", "a.h"},
		},
		{
			name: "terminator",
			args: []string{"bumpbuild", "-m", "--", "-a.h"},
			want: []string{"bumpbuild", "-m", "--", "-a.h"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, reorderArgs(appFlags, tt.args))
		})
	}
}
