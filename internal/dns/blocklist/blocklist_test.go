package blocklist

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadBlocksExactAndSuffixRules(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "deny.txt")
	writeFile(t, listPath, "ads.example.\n*.tracker.example.\n# comment\n\nplain.example.\n")

	bl, err := Load(filepath.Join(dir, "blocklist.db"), []string{listPath}, nil, 64)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer bl.Close()

	if !bl.Decide("ads.example.") {
		t.Errorf("expected ads.example. to be blocked")
	}
	if !bl.Decide("sub.tracker.example.") {
		t.Errorf("expected sub.tracker.example. to be blocked via suffix rule")
	}
	if !bl.Decide("tracker.example.") {
		t.Errorf("expected the suffix rule's own anchor name to match too")
	}
	if bl.Decide("unrelated.example.") {
		t.Errorf("unrelated name must not be blocked")
	}
}

func TestLoadBlocksHostsFileEntries(t *testing.T) {
	dir := t.TempDir()
	hostsPath := filepath.Join(dir, "hosts")
	writeFile(t, hostsPath, "127.0.0.1 malware.example.\n0.0.0.0 tracker2.example. tracker3.example.\n")

	bl, err := Load(filepath.Join(dir, "blocklist.db"), nil, []string{hostsPath}, 64)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer bl.Close()

	for _, name := range []string{"malware.example.", "tracker2.example.", "tracker3.example."} {
		if !bl.Decide(name) {
			t.Errorf("expected %s to be blocked", name)
		}
	}
}

func TestDecideCacheHitAvoidsStoreOnSecondCall(t *testing.T) {
	dir := t.TempDir()
	listPath := filepath.Join(dir, "deny.txt")
	writeFile(t, listPath, "blocked.example.\n")

	bl, err := Load(filepath.Join(dir, "blocklist.db"), []string{listPath}, nil, 64)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer bl.Close()

	if !bl.Decide("blocked.example.") {
		t.Fatalf("expected first Decide to block")
	}
	if _, ok := bl.cache.get("blocked.example."); !ok {
		t.Errorf("expected decision to be cached after first Decide")
	}
	if !bl.Decide("blocked.example.") {
		t.Errorf("expected second Decide (cache hit) to still block")
	}
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func TestReverseStringRoundTrips(t *testing.T) {
	cases := []string{"", "a", "example.com.", strings.Repeat("x", 32)}
	for _, c := range cases {
		if got := reverseString(reverseString(c)); got != c {
			t.Errorf("reverseString(reverseString(%q)) = %q", c, got)
		}
	}
}
