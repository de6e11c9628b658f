package util

import "testing"

func TestClampInt(t *testing.T) {
	cases := []struct {
		v, lo, hi, want int
	}{
		{5, 1, 10, 5},
		{0, 1, 10, 1},
		{99, 1, 10, 10},
	}
	for _, tc := range cases {
		if got := ClampInt(tc.v, tc.lo, tc.hi); got != tc.want {
			t.Errorf("ClampInt(%d,%d,%d) = %d, want %d", tc.v, tc.lo, tc.hi, got, tc.want)
		}
	}
}

func TestEnvInt(t *testing.T) {
	t.Setenv("BRIDGE_TEST_INT", "7")
	if got := EnvInt("BRIDGE_TEST_INT", 1, 0); got != 7 {
		t.Fatalf("EnvInt = %d, want 7", got)
	}
	if got := EnvInt("BRIDGE_TEST_INT_MISSING", 3, 0); got != 3 {
		t.Fatalf("EnvInt default = %d, want 3", got)
	}
	t.Setenv("BRIDGE_TEST_INT", "-5")
	if got := EnvInt("BRIDGE_TEST_INT", 1, 0); got != 0 {
		t.Fatalf("EnvInt min = %d, want 0", got)
	}
}

func TestEnvBool(t *testing.T) {
	t.Setenv("BRIDGE_TEST_BOOL", "yes")
	if !EnvBool("BRIDGE_TEST_BOOL", false) {
		t.Fatal("EnvBool(yes) should be true")
	}
	t.Setenv("BRIDGE_TEST_BOOL", "off")
	if EnvBool("BRIDGE_TEST_BOOL", true) {
		t.Fatal("EnvBool(off) should be false")
	}
}

func TestLoadFromEnv(t *testing.T) {
	type cfg struct {
		Name  string `env:"BRIDGE_TEST_NAME" default:"bridge"`
		Port  int    `env:"BRIDGE_TEST_PORT" default:"8080" min:"1"`
		Debug bool   `env:"BRIDGE_TEST_DEBUG" default:"false"`
	}
	t.Setenv("BRIDGE_TEST_PORT", "9090")
	t.Setenv("BRIDGE_TEST_DEBUG", "true")

	var c cfg
	LoadFromEnv(&c)
	if c.Name != "bridge" {
		t.Fatalf("Name = %q, want bridge", c.Name)
	}
	if c.Port != 9090 {
		t.Fatalf("Port = %d, want 9090", c.Port)
	}
	if !c.Debug {
		t.Fatal("Debug should be true")
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := FirstNonEmpty("", "  ", "x", "y"); got != "x" {
		t.Fatalf("FirstNonEmpty = %q, want x", got)
	}
	if got := FirstNonEmpty("", " "); got != "" {
		t.Fatalf("FirstNonEmpty = %q, want empty", got)
	}
}

func TestTruncateRunes(t *testing.T) {
	if got := TruncateRunes("hello", 10); got != "hello" {
		t.Fatalf("TruncateRunes = %q, want hello", got)
	}
	got := TruncateRunes("hello world", 5)
	if got != "hell…" {
		t.Fatalf("TruncateRunes = %q, want hell…", got)
	}
	if got := TruncateRunes("基因编辑实验步骤", 4); got != "基因编…" {
		t.Fatalf("TruncateRunes = %q, want 基因编…", got)
	}
}
