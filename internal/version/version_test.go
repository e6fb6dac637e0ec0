package version

import "testing"

func TestString(t *testing.T) {
	orig := Get()
	defer func() {
		Version, Commit, BuildTime = orig.Version, orig.Commit, orig.BuildTime
	}()

	tests := []struct {
		name                       string
		version, commit, buildTime string
		want                       string
	}{
		{"defaults", "dev", "unknown", "unknown", "dev (unknown) built unknown"},
		{"release", "1.2.3", "abc1234", "2024-01-15T10:00:00Z", "1.2.3 (abc1234) built 2024-01-15T10:00:00Z"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Version, Commit, BuildTime = tt.version, tt.commit, tt.buildTime
			if got := String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			info := Get()
			if info.Version != tt.version || info.Commit != tt.commit || info.BuildTime != tt.buildTime {
				t.Errorf("Get() = %+v", info)
			}
		})
	}
}

func TestDefaultValues(t *testing.T) {
	// ldflags may override these, but never to empty.
	if Version == "" || Commit == "" || BuildTime == "" {
		t.Errorf("build variables must not be empty: %+v", Get())
	}
}
