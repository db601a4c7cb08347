package cli

import (
	"path/filepath"
	"testing"
)

func TestXDGPaths(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	tests := []struct {
		name string
		env  map[string]string
		fn   func() (string, error)
		want string
	}{
		{
			name: "cache default",
			env:  map[string]string{"XDG_CACHE_HOME": ""},
			fn:   cacheDir,
			want: filepath.Join(home, ".cache", appName),
		},
		{
			name: "cache from env",
			env:  map[string]string{"XDG_CACHE_HOME": "/var/cache/team"},
			fn:   cacheDir,
			want: filepath.Join("/var/cache/team", appName),
		},
		{
			name: "config default",
			env:  map[string]string{"XDG_CONFIG_HOME": ""},
			fn:   configPath,
			want: filepath.Join(home, ".config", appName, "config.toml"),
		},
		{
			name: "config from env",
			env:  map[string]string{"XDG_CONFIG_HOME": "/etc/xdg"},
			fn:   configPath,
			want: filepath.Join("/etc/xdg", appName, "config.toml"),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			got, err := tt.fn()
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
